package assistantService

import (
	"HomeFinder/internal/api/assistant"
	"HomeFinder/internal/entity"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const minBookingDetailsLen = 3

func (s *assistantService) beginBooking(t *turn, c entity.Conversation, p entity.Property) entity.Conversation {
	t.textf(msgBookingPrompt, p.Title)
	c.Context.CurrentPropertyID = p.ID
	return c.Moved(entity.FlowBooking, entity.StepAwaitingBookingDetails)
}

func (s *assistantService) promptBooking(ctx context.Context, t *turn, c entity.Conversation, propertyID string) (entity.Conversation, error) {
	p, err := t.repo.Properties.GetByID(ctx, propertyID)
	if errors.Is(err, assistant.ErrPropertyNotFound) {
		t.text(msgPropertyNotFound)
		c.Context.CurrentPropertyID = ""
		return c.Moved(entity.FlowDefault, entity.StepNone), nil
	}
	if err != nil {
		return c, err
	}
	return s.beginBooking(t, c, p), nil
}

// completeBooking turns the details text into a pending tour booking. The
// booking is part of the turn, the agent email is best-effort.
func (s *assistantService) completeBooking(ctx context.Context, t *turn, c entity.Conversation, text string) (entity.Conversation, error) {
	propertyID := c.Context.CurrentPropertyID
	if propertyID == "" {
		t.text(msgBookingNoTarget)
		t.list(mainMenu())
		return c.Moved(entity.FlowDefault, entity.StepNone), nil
	}

	details := strings.TrimSpace(text)
	if utf8.RuneCountInString(details) < minBookingDetailsLen {
		t.text(msgBookingTooShort)
		return c, nil
	}

	p, err := t.repo.Properties.GetByID(ctx, propertyID)
	if errors.Is(err, assistant.ErrPropertyNotFound) {
		t.text(msgPropertyNotFound)
		c.Context.CurrentPropertyID = ""
		return c.Moved(entity.FlowDefault, entity.StepNone), nil
	}
	if err != nil {
		return c, err
	}

	now := s.now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return c, fmt.Errorf("booking id: %w", err)
	}

	booking := entity.TourBooking{
		ID:         id,
		UserID:     c.UserID,
		PropertyID: p.ID,
		Details:    details,
		Status:     entity.BookingPending,
		CreatedAt:  now,
	}
	if err := t.repo.Bookings.Create(ctx, booking); err != nil {
		return c, err
	}

	t.textf(msgBookingConfirmed, p.Title)
	t.buttons("Anything else I can help with?",
		actionButton(assistant.ActionContact, p.ID, "Contact agent"),
		button(SelectMainSearch, "New search"),
		button(SelectMainMenu, "Main menu"),
	)

	t.after(s.notifyAgent(p,
		fmt.Sprintf("HomeFinder: tour request for %s", p.Title),
		fmt.Sprintf("Hello %s,\n\nA HomeFinder user (%s) requested a tour of \"%s\" in %s.\n\nTheir message: %s\n\nBooking reference: %s\n",
			p.AgentName, c.UserID, p.Title, p.Location, details, booking.ID),
	))
	t.after(s.learnPreference(c.UserID, p))

	return c.Moved(entity.FlowDefault, entity.StepNone), nil
}
