package assistantHandler

import (
	"HomeFinder/internal/api/assistant"
	contextPkg "HomeFinder/pkg/context"
	"HomeFinder/pkg/log"
	"HomeFinder/pkg/whatsapp"
	"context"
	"errors"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	wsReadTimeout  = 5 * time.Minute
	wsWriteTimeout = 10 * time.Second
	wsTurnTimeout  = 15 * time.Second
)

// handleChatWebSocket is a browser chat session. Each JSON frame is one event
// from the sender given by ?sender_id=, answered with the resulting messages.
func (h *AssistantHandler) handleChatWebSocket(c *websocket.Conn) {
	senderID := c.Query("sender_id")
	if senderID == "" {
		id, err := h.utils.NewULIDFromTimestamp(time.Now())
		if err != nil {
			h.log.Errorf("Error creating websocket sender id: %v", err)
			return
		}
		senderID = "web-" + id
	}

	logger := h.log.WithField("sender_id", senderID)
	logger.Info("Chat WebSocket client connected")
	defer logger.Info("Chat WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			logger.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			logger.Errorf("Error setting read deadline: %v", err)
			break
		}

		var frame assistant.ChatFrame
		if err := c.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Errorf("Chat WebSocket error: %v", err)
			}
			break
		}

		reply, err := h.chatTurn(senderID, frame)
		if err != nil {
			logger.WithField("error", err.Error()).Warn("Chat frame rejected")
			reply = map[string]string{"error": err.Error()}
		}

		if err := c.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			logger.Errorf("Error setting write deadline: %v", err)
			break
		}
		if err := c.WriteJSON(reply); err != nil {
			logger.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}

func (h *AssistantHandler) chatTurn(senderID string, frame assistant.ChatFrame) (interface{}, error) {
	if err := h.validator.Struct(frame); err != nil {
		return nil, err
	}

	eventID, err := h.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), eventID), wsTurnTimeout)
	defer cancel()

	h.log.WithFields(log.Fields{
		"request_id": eventID,
		"sender_id":  senderID,
		"event_type": frame.Type,
	}).Debug("Processing websocket chat frame")

	recorder := whatsapp.NewRecorder()
	err = h.assistantService.ProcessEvent(ctx, recorder, frame.ToEvent(senderID, eventID))
	if err != nil && !errors.Is(err, assistant.ErrDuplicateEvent) {
		return nil, err
	}

	return assistant.EventResponse{Messages: recorder.Messages()}, nil
}
