package assistantService

import (
	"HomeFinder/internal/api/assistant"
	"HomeFinder/internal/entity"
	contextPkg "HomeFinder/pkg/context"
	"HomeFinder/pkg/whatsapp"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

func (s *assistantService) ProcessEvent(ctx context.Context, sender whatsapp.IWhatsappSender, event assistant.InboundEvent) error {
	requestID := contextPkg.GetRequestID(ctx)
	log := s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"sender_id":  event.SenderID,
		"event_id":   event.EventID,
		"event_type": event.Type,
	})

	if event.SenderID == "" {
		log.Warn("Dropping event without sender")
		return assistant.ErrUnsupportedEvent
	}

	if s.redis != nil && event.EventID != "" {
		first, err := s.redis.MarkEventProcessed(ctx, event.EventID, s.cfg.DedupeTTL)
		if err != nil {
			log.WithField("error", err.Error()).Warn("Event de-duplication unavailable")
		} else if !first {
			log.Info("Duplicate event skipped")
			return assistant.ErrDuplicateEvent
		}
	}

	if !s.limiter.Allow(event.SenderID) {
		log.Warn("Sender rate limit exceeded")
		// The transport retries rejected events, so the id must stay unseen.
		if s.redis != nil && event.EventID != "" {
			_ = s.redis.ForgetEvent(ctx, event.EventID)
		}
		return assistant.ErrRateLimitExceeded
	}

	err := s.runTurn(ctx, sender, event)
	if err == nil {
		return nil
	}

	log.WithField("error", err.Error()).Error("Event processing failed")

	if sendErr := sender.SendMessage(ctx, event.SenderID, msgApology); sendErr != nil {
		log.WithField("error", sendErr.Error()).Error("Failed to send apology")
		if s.redis != nil && event.EventID != "" {
			_ = s.redis.ForgetEvent(ctx, event.EventID)
		}
		return fmt.Errorf("%w: %v", assistant.ErrTransportUnavailable, sendErr)
	}

	return nil
}

// runTurn loads the conversation, dispatches the event, saves the resulting
// conversation once and delivers the replies. Nothing is committed unless
// every reply was handed to the transport.
func (s *assistantService) runTurn(ctx context.Context, sender whatsapp.IWhatsappSender, event assistant.InboundEvent) error {
	repo, err := s.repo.NewClient(true)
	if err != nil {
		return fmt.Errorf("open transaction: %w", err)
	}
	defer repo.Rollback()

	conversation, err := s.loadConversation(ctx, repo.Conversations, event.SenderID)
	if err != nil {
		return err
	}

	t := newTurn(event.SenderID, repo)

	next, err := s.dispatch(ctx, t, conversation, event)
	if err != nil {
		return err
	}

	next.LastActivity = s.now()
	if err := repo.Conversations.Save(ctx, next); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}

	for _, msg := range t.messages {
		if err := whatsapp.Deliver(ctx, sender, msg); err != nil {
			return fmt.Errorf("deliver reply: %w", err)
		}
	}

	if err := repo.Commit(); err != nil {
		return fmt.Errorf("commit turn: %w", err)
	}

	s.runEffects(ctx, t.effects)

	return nil
}

type conversationGetter interface {
	GetByUserID(ctx context.Context, userID string) (entity.Conversation, error)
}

func (s *assistantService) loadConversation(ctx context.Context, conversations conversationGetter, userID string) (entity.Conversation, error) {
	conversation, err := conversations.GetByUserID(ctx, userID)
	switch {
	case err == nil && !conversation.Archived:
		return conversation, nil
	case err != nil && !errors.Is(err, assistant.ErrConversationNotFound):
		return entity.Conversation{}, fmt.Errorf("load conversation: %w", err)
	}

	now := s.now()
	id := conversation.ID
	if id == "" {
		id, err = s.utils.NewULIDFromTimestamp(now)
		if err != nil {
			return entity.Conversation{}, fmt.Errorf("conversation id: %w", err)
		}
	}

	return entity.NewConversation(id, userID, now), nil
}

func (s *assistantService) dispatch(ctx context.Context, t *turn, c entity.Conversation, event assistant.InboundEvent) (entity.Conversation, error) {
	switch event.Type {
	case assistant.EventText:
		return s.handleText(ctx, t, c, event.Text)
	case assistant.EventButton, assistant.EventList:
		if event.Action != nil {
			return s.HandleAction(ctx, t, *event.Action, c)
		}
		return s.handleSelection(ctx, t, c, event.Selection)
	default:
		s.didNotUnderstand(t)
		return c, nil
	}
}

func (s *assistantService) didNotUnderstand(t *turn) {
	t.text(msgDidNotUnderstand)
	t.list(mainMenu())
}
