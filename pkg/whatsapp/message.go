package whatsapp

import (
	"context"
	"errors"
	"fmt"
)

const MaxButtons = 3

var ErrTooManyButtons = fmt.Errorf("at most %d buttons per message", MaxButtons)

type MessageKind string

const (
	KindText    MessageKind = "text"
	KindButtons MessageKind = "buttons"
	KindList    MessageKind = "list"
)

type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ListSection struct {
	Title string    `json:"title"`
	Rows  []ListRow `json:"rows"`
}

type List struct {
	Title      string        `json:"title,omitempty"`
	Body       string        `json:"body"`
	ButtonText string        `json:"button_text"`
	Sections   []ListSection `json:"sections"`
}

// Message is one outgoing chat message of any kind.
type Message struct {
	PhoneNumber string      `json:"to"`
	Kind        MessageKind `json:"kind"`
	Text        string      `json:"text,omitempty"`
	Buttons     []Button    `json:"buttons,omitempty"`
	List        *List       `json:"list,omitempty"`
}

// Deliver sends msg through sender using the call matching its kind.
func Deliver(ctx context.Context, sender IWhatsappSender, msg Message) error {
	switch msg.Kind {
	case KindText, "":
		return sender.SendMessage(ctx, msg.PhoneNumber, msg.Text)
	case KindButtons:
		return sender.SendButtons(ctx, msg.PhoneNumber, msg.Text, msg.Buttons)
	case KindList:
		if msg.List == nil {
			return errors.New("list message without list")
		}
		return sender.SendList(ctx, msg.PhoneNumber, *msg.List)
	default:
		return fmt.Errorf("unknown message kind %q", msg.Kind)
	}
}

type IncomingKind string

const (
	IncomingText   IncomingKind = "text"
	IncomingButton IncomingKind = "button"
	IncomingList   IncomingKind = "list"
	IncomingMedia  IncomingKind = "media"
)

// Incoming is a decoded inbound chat message.
type Incoming struct {
	SenderID    string
	MessageID   string
	Kind        IncomingKind
	Text        string
	SelectionID string
}
