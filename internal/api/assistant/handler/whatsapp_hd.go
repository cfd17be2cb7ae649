package assistantHandler

import (
	"HomeFinder/internal/api/assistant"
	contextPkg "HomeFinder/pkg/context"
	"HomeFinder/pkg/log"
	"HomeFinder/pkg/whatsapp"
	"context"
	"errors"
	"time"
)

const whatsappTurnTimeout = 60 * time.Second

// ListenWhatsapp feeds every inbound WhatsApp message to the assistant. The
// replies go back through the same client.
func (h *AssistantHandler) ListenWhatsapp(client whatsapp.IWhatsappClient) {
	client.OnMessage(func(in whatsapp.Incoming) {
		go h.handleIncoming(client, in)
	})
}

func (h *AssistantHandler) handleIncoming(sender whatsapp.IWhatsappSender, in whatsapp.Incoming) {
	requestID, err := h.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		requestID = in.MessageID
	}

	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), whatsappTurnTimeout)
	defer cancel()

	logger := h.log.WithFields(log.Fields{
		"request_id": requestID,
		"message_id": in.MessageID,
		"kind":       in.Kind,
	})
	logger.Debug("Incoming WhatsApp message")

	err = h.assistantService.ProcessEvent(ctx, sender, assistant.EventFromIncoming(in))
	switch {
	case err == nil, errors.Is(err, assistant.ErrDuplicateEvent):
	case errors.Is(err, assistant.ErrRateLimitExceeded):
		logger.Warn("WhatsApp sender rate limited")
	default:
		logger.WithField("error", err.Error()).Error("Failed to process WhatsApp message")
	}
}
