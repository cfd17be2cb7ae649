package assistantService

import (
	"HomeFinder/internal/entity"
	"context"
)

// handleSelection runs the fixed table of non-property selections. Unknown
// ids get the main menu and leave the conversation as it was.
func (s *assistantService) handleSelection(ctx context.Context, t *turn, c entity.Conversation, selection string) (entity.Conversation, error) {
	switch selection {
	case SelectMainSearch:
		t.text(msgSearchPrompt)
		return c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSearchQuery), nil
	case SelectSmartSearch:
		t.text(msgSmartPrompt)
		return c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSmartSearch), nil
	case SelectAdvancedSearch:
		if c.Context.LastCriteria == nil {
			t.text(msgSearchPrompt)
			return c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSearchQuery), nil
		}
		t.text(msgAdvancedPrompt)
		return c.Moved(entity.FlowPropertySearch, entity.StepAwaitingAdvancedSearch), nil
	case SelectNewSearch:
		c.Context = entity.ConversationContext{}
		t.text(msgSearchPrompt)
		return c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSearchQuery), nil
	case SelectShowMore:
		return s.showMore(ctx, t, c)
	case SelectFeatured:
		return s.showFeatured(ctx, t, c)
	case SelectSaved:
		return s.showSaved(ctx, t, c)
	case SelectCompare:
		return s.compare(ctx, t, c)
	case SelectCarouselNext:
		return s.carousel(ctx, t, c, 1)
	case SelectCarouselPrev:
		return s.carousel(ctx, t, c, -1)
	case SelectPreferences:
		return s.showPreferences(ctx, t, c)
	case SelectHelp:
		s.sendHelp(t)
		return c, nil
	case SelectMainMenu:
		t.list(mainMenu())
		return c.Moved(entity.FlowDefault, entity.StepNone), nil
	default:
		s.didNotUnderstand(t)
		return c, nil
	}
}
