package whatsapp

import (
	"HomeFinder/database/postgres"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
)

type IWhatsappSender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
	SendButtons(ctx context.Context, phoneNumber, text string, buttons []Button) error
	SendList(ctx context.Context, phoneNumber string, list List) error
	Disconnect() error
	IsConnected() bool
}

// IWhatsappClient is a sender that also delivers inbound messages.
type IWhatsappClient interface {
	IWhatsappSender
	OnMessage(handler func(Incoming))
}

type whatsappSender struct {
	client *whatsmeow.Client
	log    *logrus.Logger
}

func New(log *logrus.Logger) (IWhatsappClient, error) {
	ctx := context.Background()
	dsn := postgres.FormatDSN()

	dbLog := waLog.Stdout("Database", "INFO", true)
	container, err := sqlstore.New(ctx, "postgres", dsn, dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "INFO", true))

	connected := make(chan struct{}, 1)
	client.AddEventHandler(func(evt interface{}) {
		if _, ok := evt.(*events.Connected); ok {
			select {
			case connected <- struct{}{}:
			default:
			}
		}
	})

	if client.Store.ID == nil {
		qrChan, _ := client.GetQRChannel(ctx)
		if err := client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}

		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					log.WithField("code", evt.Code).Info("Scan WhatsApp QR code to link the assistant")
				}
			}
		}()
	} else {
		if err := client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
	}

	select {
	case <-connected:
		log.Info("WhatsApp connected")
	case <-time.After(60 * time.Second):
		return nil, fmt.Errorf("connection timeout")
	}

	return &whatsappSender{
		client: client,
		log:    log,
	}, nil
}

func (w *whatsappSender) SendMessage(ctx context.Context, phoneNumber, message string) error {
	waMsg := &waE2E.Message{
		Conversation: proto.String(message),
	}

	return w.send(ctx, phoneNumber, waMsg)
}

func (w *whatsappSender) SendButtons(ctx context.Context, phoneNumber, text string, buttons []Button) error {
	if len(buttons) > MaxButtons {
		return ErrTooManyButtons
	}

	return w.send(ctx, phoneNumber, buildButtonsMessage(text, buttons))
}

func (w *whatsappSender) SendList(ctx context.Context, phoneNumber string, list List) error {
	return w.send(ctx, phoneNumber, buildListMessage(list))
}

func (w *whatsappSender) send(ctx context.Context, phoneNumber string, waMsg *waE2E.Message) error {
	jid := types.NewJID(phoneNumber, types.DefaultUserServer)

	if _, err := w.client.SendMessage(ctx, jid, waMsg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// OnMessage registers handler for direct messages from other users.
func (w *whatsappSender) OnMessage(handler func(Incoming)) {
	w.client.AddEventHandler(func(evt interface{}) {
		msg, ok := evt.(*events.Message)
		if !ok || msg.Info.IsFromMe || msg.Info.IsGroup {
			return
		}

		incoming, ok := ParseIncoming(msg.Info.Sender.User, msg.Info.ID, msg.Message)
		if !ok {
			w.log.WithField("message_id", msg.Info.ID).Debug("Ignoring empty WhatsApp message")
			return
		}

		handler(incoming)
	})
}

func (w *whatsappSender) Disconnect() error {
	w.client.Disconnect()
	return nil
}

func (w *whatsappSender) IsConnected() bool {
	return w.client.IsConnected()
}

func buildButtonsMessage(text string, buttons []Button) *waE2E.Message {
	waButtons := make([]*waE2E.ButtonsMessage_Button, 0, len(buttons))
	for _, b := range buttons {
		waButtons = append(waButtons, &waE2E.ButtonsMessage_Button{
			ButtonID: proto.String(b.ID),
			ButtonText: &waE2E.ButtonsMessage_Button_ButtonText{
				DisplayText: proto.String(b.Title),
			},
			Type: waE2E.ButtonsMessage_Button_RESPONSE.Enum(),
		})
	}

	return &waE2E.Message{
		ButtonsMessage: &waE2E.ButtonsMessage{
			ContentText: proto.String(text),
			HeaderType:  waE2E.ButtonsMessage_EMPTY.Enum(),
			Buttons:     waButtons,
		},
	}
}

func buildListMessage(list List) *waE2E.Message {
	sections := make([]*waE2E.ListMessage_Section, 0, len(list.Sections))
	for _, s := range list.Sections {
		rows := make([]*waE2E.ListMessage_Row, 0, len(s.Rows))
		for _, r := range s.Rows {
			rows = append(rows, &waE2E.ListMessage_Row{
				RowID:       proto.String(r.ID),
				Title:       proto.String(r.Title),
				Description: proto.String(r.Description),
			})
		}
		sections = append(sections, &waE2E.ListMessage_Section{
			Title: proto.String(s.Title),
			Rows:  rows,
		})
	}

	return &waE2E.Message{
		ListMessage: &waE2E.ListMessage{
			Title:       proto.String(list.Title),
			Description: proto.String(list.Body),
			ButtonText:  proto.String(list.ButtonText),
			ListType:    waE2E.ListMessage_SINGLE_SELECT.Enum(),
			Sections:    sections,
		},
	}
}

// ParseIncoming classifies a WhatsApp message payload. It reports false for
// payloads that carry nothing the assistant can react to.
func ParseIncoming(senderID, messageID string, msg *waE2E.Message) (Incoming, bool) {
	if msg == nil {
		return Incoming{}, false
	}

	incoming := Incoming{SenderID: senderID, MessageID: messageID}

	switch {
	case msg.GetButtonsResponseMessage() != nil:
		incoming.Kind = IncomingButton
		incoming.SelectionID = msg.GetButtonsResponseMessage().GetSelectedButtonID()
	case msg.GetTemplateButtonReplyMessage() != nil:
		incoming.Kind = IncomingButton
		incoming.SelectionID = msg.GetTemplateButtonReplyMessage().GetSelectedID()
	case msg.GetListResponseMessage() != nil:
		incoming.Kind = IncomingList
		incoming.SelectionID = msg.GetListResponseMessage().GetSingleSelectReply().GetSelectedRowID()
	case msg.GetConversation() != "":
		incoming.Kind = IncomingText
		incoming.Text = msg.GetConversation()
	case msg.GetExtendedTextMessage().GetText() != "":
		incoming.Kind = IncomingText
		incoming.Text = msg.GetExtendedTextMessage().GetText()
	case msg.GetImageMessage() != nil, msg.GetVideoMessage() != nil, msg.GetAudioMessage() != nil,
		msg.GetDocumentMessage() != nil, msg.GetStickerMessage() != nil, msg.GetLocationMessage() != nil,
		msg.GetContactMessage() != nil:
		incoming.Kind = IncomingMedia
	default:
		return Incoming{}, false
	}

	return incoming, true
}
