package assistantService

import (
	"HomeFinder/internal/entity"
	"HomeFinder/pkg/nlp"
	"context"
)

type command int

const (
	commandNone command = iota
	commandHelp
	commandMenu
	commandStop
	commandRestart
)

var globalCommands = map[string]command{
	"help":       commandHelp,
	"menu":       commandMenu,
	"main menu":  commandMenu,
	"stop":       commandStop,
	"cancel":     commandStop,
	"restart":    commandRestart,
	"start":      commandRestart,
	"start over": commandRestart,
}

var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "hallo": true,
	"good morning": true, "good afternoon": true, "good evening": true,
}

func parseCommand(text string) command {
	return globalCommands[nlp.Normalize(text)]
}

func (s *assistantService) handleText(ctx context.Context, t *turn, c entity.Conversation, text string) (entity.Conversation, error) {
	if nlp.Normalize(text) == "" {
		s.didNotUnderstand(t)
		return c, nil
	}

	switch parseCommand(text) {
	case commandHelp:
		s.sendHelp(t)
		return c, nil
	case commandMenu:
		t.list(mainMenu())
		return c.Moved(entity.FlowDefault, entity.StepNone), nil
	case commandStop:
		t.text(msgStopped)
		c.Context.CurrentPropertyID = ""
		return c.Moved(entity.FlowDefault, entity.StepNone), nil
	case commandRestart:
		t.text(msgRestarted)
		t.text(msgWelcome)
		t.list(mainMenu())
		c.Context = entity.ConversationContext{}
		return c.Moved(entity.FlowDefault, entity.StepNone), nil
	}

	switch c.Flow {
	case entity.FlowWelcome:
		return s.welcomeFlow(ctx, t, c, text)
	case entity.FlowPropertySearch:
		return s.searchFlow(ctx, t, c, text)
	case entity.FlowBooking:
		return s.bookingFlow(ctx, t, c, text)
	case entity.FlowPreferences:
		return s.preferencesFlow(ctx, t, c, text)
	default:
		return s.defaultFlow(ctx, t, c, text)
	}
}

func (s *assistantService) sendHelp(t *turn) {
	t.text(msgHelp)
	t.buttons("Where do you want to start?",
		button(SelectMainSearch, "Search"),
		button(SelectFeatured, "Featured"),
		button(SelectMainMenu, "Main menu"),
	)
}

// welcomeFlow greets a first-time user. A first message that already
// describes a property goes straight to the search pipeline.
func (s *assistantService) welcomeFlow(ctx context.Context, t *turn, c entity.Conversation, text string) (entity.Conversation, error) {
	t.text(msgWelcome)

	criteria := s.parser.ParseQuery(text)
	if criteria.HasConstraints() {
		return s.runSearch(ctx, t, c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSearchQuery), criteria)
	}

	t.list(mainMenu())
	return c.Moved(entity.FlowDefault, entity.StepNone), nil
}

func (s *assistantService) defaultFlow(ctx context.Context, t *turn, c entity.Conversation, text string) (entity.Conversation, error) {
	if greetings[nlp.Normalize(text)] {
		t.text(msgWelcomeBack)
		t.list(mainMenu())
		return c.Moved(entity.FlowDefault, entity.StepNone), nil
	}

	criteria := s.parser.ParseQuery(text)
	if criteria.HasConstraints() {
		return s.runSearch(ctx, t, c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSearchQuery), criteria)
	}

	intent, matched := s.parser.DetectIntent(text)
	if !matched {
		s.didNotUnderstand(t)
		return c, nil
	}

	switch intent {
	case nlp.IntentHelp:
		s.sendHelp(t)
		return c, nil
	case nlp.IntentBook, nlp.IntentContact, nlp.IntentInfo:
		if c.Context.CurrentPropertyID != "" {
			return s.offerPropertyActions(ctx, t, c)
		}
	}

	t.text(msgSearchPrompt)
	return c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSearchQuery), nil
}

// searchFlow dispatches text by step. Refinement merges with the previous
// criteria; every other step starts from scratch.
func (s *assistantService) searchFlow(ctx context.Context, t *turn, c entity.Conversation, text string) (entity.Conversation, error) {
	criteria := s.parser.ParseQuery(text)

	switch c.Step {
	case entity.StepAwaitingSearchQuery, entity.StepAwaitingSmartSearch:
		return s.runSearch(ctx, t, c, criteria)
	case entity.StepAwaitingAdvancedSearch:
		if c.Context.LastCriteria != nil {
			criteria = c.Context.LastCriteria.Merge(criteria)
		}
		return s.runSearch(ctx, t, c, criteria)
	case entity.StepViewingResults, entity.StepBrowsingCarousel:
		if !criteria.HasConstraints() {
			if intent, ok := s.parser.DetectIntent(text); ok && intent != nlp.IntentSearch && c.Context.CurrentPropertyID != "" {
				return s.offerPropertyActions(ctx, t, c)
			}
			t.text(msgSearchPrompt)
			return c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSearchQuery), nil
		}
		return s.runSearch(ctx, t, c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSearchQuery), criteria)
	default:
		t.text(msgSearchPrompt)
		return c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSearchQuery), nil
	}
}

func (s *assistantService) bookingFlow(ctx context.Context, t *turn, c entity.Conversation, text string) (entity.Conversation, error) {
	if c.Step != entity.StepAwaitingBookingDetails {
		if c.Context.CurrentPropertyID == "" {
			t.text(msgBookingNoTarget)
			t.list(mainMenu())
			return c.Moved(entity.FlowDefault, entity.StepNone), nil
		}
		return s.promptBooking(ctx, t, c, c.Context.CurrentPropertyID)
	}
	return s.completeBooking(ctx, t, c, text)
}

func (s *assistantService) preferencesFlow(ctx context.Context, t *turn, c entity.Conversation, text string) (entity.Conversation, error) {
	if c.Step != entity.StepAwaitingPreferences {
		return s.showPreferences(ctx, t, c)
	}
	return s.updatePreferences(ctx, t, c, text)
}
