package assistantService

import (
	assistantRepository "HomeFinder/internal/api/assistant/repository"
	"HomeFinder/pkg/whatsapp"
	"context"
	"fmt"
)

// turn collects everything one inbound event produces. Replies are only
// delivered, and effects only run, after the conversation was saved.
type turn struct {
	userID   string
	repo     assistantRepository.Client
	messages []whatsapp.Message
	effects  []func(ctx context.Context) Effect
}

func newTurn(userID string, repo assistantRepository.Client) *turn {
	return &turn{userID: userID, repo: repo}
}

func (t *turn) text(body string) {
	t.messages = append(t.messages, whatsapp.Message{
		PhoneNumber: t.userID,
		Kind:        whatsapp.KindText,
		Text:        body,
	})
}

func (t *turn) textf(format string, args ...interface{}) {
	t.text(fmt.Sprintf(format, args...))
}

func (t *turn) buttons(body string, buttons ...whatsapp.Button) {
	if len(buttons) > whatsapp.MaxButtons {
		buttons = buttons[:whatsapp.MaxButtons]
	}
	t.messages = append(t.messages, whatsapp.Message{
		PhoneNumber: t.userID,
		Kind:        whatsapp.KindButtons,
		Text:        body,
		Buttons:     buttons,
	})
}

func (t *turn) list(l whatsapp.List) {
	t.messages = append(t.messages, whatsapp.Message{
		PhoneNumber: t.userID,
		Kind:        whatsapp.KindList,
		Text:        l.Body,
		List:        &l,
	})
}

// after queues a non-critical effect to run once the turn committed.
func (t *turn) after(effect func(ctx context.Context) Effect) {
	t.effects = append(t.effects, effect)
}
