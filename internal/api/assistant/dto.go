package assistant

import (
	"HomeFinder/internal/entity"
	"HomeFinder/pkg/nlp"
	"HomeFinder/pkg/ranking"
	"HomeFinder/pkg/whatsapp"
	"strings"
	"time"
)

type EventType string

const (
	EventText   EventType = "text"
	EventButton EventType = "button"
	EventList   EventType = "list"
	EventMedia  EventType = "media"
)

// InboundEvent is one message received from a chat transport.
type InboundEvent struct {
	SenderID  string          `json:"sender_id"`
	EventID   string          `json:"event_id"`
	Type      EventType       `json:"type"`
	Text      string          `json:"text,omitempty"`
	Selection string          `json:"selection,omitempty"`
	Action    *PropertyAction `json:"action,omitempty"`
}

// NewTextEvent builds a plain text event.
func NewTextEvent(senderID, eventID, text string) InboundEvent {
	return InboundEvent{SenderID: senderID, EventID: eventID, Type: EventText, Text: text}
}

// NewSelectionEvent builds a button or list event and decodes any property
// action carried by the selection id.
func NewSelectionEvent(senderID, eventID string, eventType EventType, selection string) InboundEvent {
	evt := InboundEvent{
		SenderID:  senderID,
		EventID:   eventID,
		Type:      eventType,
		Selection: strings.TrimSpace(selection),
	}
	if action, ok := ParseSelection(evt.Selection); ok {
		evt.Action = &action
	}
	return evt
}

func NewMediaEvent(senderID, eventID string) InboundEvent {
	return InboundEvent{SenderID: senderID, EventID: eventID, Type: EventMedia}
}

// EventFromIncoming converts a decoded WhatsApp message.
func EventFromIncoming(in whatsapp.Incoming) InboundEvent {
	switch in.Kind {
	case whatsapp.IncomingText:
		return NewTextEvent(in.SenderID, in.MessageID, in.Text)
	case whatsapp.IncomingButton:
		return NewSelectionEvent(in.SenderID, in.MessageID, EventButton, in.SelectionID)
	case whatsapp.IncomingList:
		return NewSelectionEvent(in.SenderID, in.MessageID, EventList, in.SelectionID)
	default:
		return NewMediaEvent(in.SenderID, in.MessageID)
	}
}

type EventRequest struct {
	SenderID  string `json:"sender_id" validate:"required,max=64"`
	EventID   string `json:"event_id" validate:"required,max=128"`
	Type      string `json:"type" validate:"required,oneof=text button list media"`
	Text      string `json:"text" validate:"max=2048"`
	Selection string `json:"selection" validate:"max=256"`
}

func (r EventRequest) ToEvent() InboundEvent {
	switch EventType(r.Type) {
	case EventText:
		return NewTextEvent(r.SenderID, r.EventID, r.Text)
	case EventButton, EventList:
		return NewSelectionEvent(r.SenderID, r.EventID, EventType(r.Type), r.Selection)
	default:
		return NewMediaEvent(r.SenderID, r.EventID)
	}
}

type ChatFrame struct {
	Type      string `json:"type" validate:"required,oneof=text button list media"`
	Text      string `json:"text" validate:"max=2048"`
	Selection string `json:"selection" validate:"max=256"`
}

func (f ChatFrame) ToEvent(senderID, eventID string) InboundEvent {
	return EventRequest{
		SenderID:  senderID,
		EventID:   eventID,
		Type:      f.Type,
		Text:      f.Text,
		Selection: f.Selection,
	}.ToEvent()
}

type EventResponse struct {
	Messages []whatsapp.Message `json:"messages"`
}

type ParseQueryRequest struct {
	Utterance string `json:"utterance" validate:"required,max=2048"`
}

type ParseQueryResponse struct {
	Utterance string             `json:"utterance"`
	Criteria  nlp.SearchCriteria `json:"criteria"`
}

type RankRequest struct {
	Utterance string `json:"utterance" validate:"required,max=2048"`
	UserID    string `json:"user_id" validate:"omitempty,max=64"`
}

type RankResponse struct {
	Criteria nlp.SearchCriteria     `json:"criteria"`
	Results  []ranking.RankedResult `json:"results"`
}

type ConversationResponse struct {
	UserID            string              `json:"user_id"`
	Flow              string              `json:"flow"`
	Step              string              `json:"step"`
	LastResultIDs     []string            `json:"last_result_ids,omitempty"`
	ResultCursor      int                 `json:"result_cursor"`
	CurrentPropertyID string              `json:"current_property_id,omitempty"`
	LastCriteria      *nlp.SearchCriteria `json:"last_criteria,omitempty"`
	LastActivity      string              `json:"last_activity"`
}

func NewConversationResponse(c entity.Conversation) ConversationResponse {
	return ConversationResponse{
		UserID:            c.UserID,
		Flow:              string(c.Flow),
		Step:              string(c.Step),
		LastResultIDs:     c.Context.LastResultIDs,
		ResultCursor:      c.Context.ResultCursor,
		CurrentPropertyID: c.Context.CurrentPropertyID,
		LastCriteria:      c.Context.LastCriteria,
		LastActivity:      c.LastActivity.UTC().Format(time.RFC3339),
	}
}
