package entity

import (
	"HomeFinder/pkg/nlp"
	"time"
)

type Flow string

const (
	FlowWelcome        Flow = "welcome"
	FlowPropertySearch Flow = "property_search"
	FlowBooking        Flow = "booking"
	FlowPreferences    Flow = "preferences"
	FlowDefault        Flow = "default"
)

type Step string

const (
	StepNone                   Step = ""
	StepAwaitingSearchQuery    Step = "awaiting_search_query"
	StepAwaitingSmartSearch    Step = "awaiting_smart_search"
	StepAwaitingAdvancedSearch Step = "awaiting_advanced_search"
	StepViewingResults         Step = "viewing_results"
	StepBrowsingCarousel       Step = "browsing_carousel"
	StepAwaitingBookingDetails Step = "awaiting_booking_details"
	StepAwaitingPreferences    Step = "awaiting_preferences"
)

// ConversationContext is the transient dialogue state carried between turns.
type ConversationContext struct {
	LastResultIDs     []string            `json:"last_result_ids,omitempty"`
	ResultCursor      int                 `json:"result_cursor"`
	CarouselIndex     int                 `json:"carousel_index"`
	CurrentPropertyID string              `json:"current_property_id,omitempty"`
	LastCriteria      *nlp.SearchCriteria `json:"last_criteria,omitempty"`
}

type Conversation struct {
	ID           string
	UserID       string
	Flow         Flow
	Step         Step
	Context      ConversationContext
	Archived     bool
	CreatedAt    time.Time
	LastActivity time.Time
}

func NewConversation(id, userID string, now time.Time) Conversation {
	return Conversation{
		ID:           id,
		UserID:       userID,
		Flow:         FlowWelcome,
		Step:         StepNone,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Moved returns a copy of c placed at (flow, step).
func (c Conversation) Moved(flow Flow, step Step) Conversation {
	c.Flow = flow
	c.Step = step
	return c
}
