package assistant

import "strings"

type ActionVerb string

const (
	ActionView    ActionVerb = "view"
	ActionGallery ActionVerb = "gallery"
	ActionBook    ActionVerb = "book"
	ActionContact ActionVerb = "contact"
	ActionSave    ActionVerb = "save"
	ActionShare   ActionVerb = "share"
	ActionDetails ActionVerb = "details"
)

var actionVerbs = []ActionVerb{
	ActionView, ActionGallery, ActionBook, ActionContact, ActionSave, ActionShare, ActionDetails,
}

// PropertyAction is an operation on a single listing, decoded once from a
// selection id of the form "<verb>_<propertyId>".
type PropertyAction struct {
	Verb       ActionVerb `json:"verb"`
	PropertyID string     `json:"property_id"`
}

func (a PropertyAction) Valid() bool {
	if a.PropertyID == "" {
		return false
	}
	for _, v := range actionVerbs {
		if a.Verb == v {
			return true
		}
	}
	return false
}

// ID encodes the action back into a selection id for outgoing buttons.
func (a PropertyAction) ID() string {
	return string(a.Verb) + "_" + a.PropertyID
}

func NewPropertyAction(verb ActionVerb, propertyID string) PropertyAction {
	return PropertyAction{Verb: verb, PropertyID: propertyID}
}

// ParseSelection reports whether selectionID carries a property action prefix.
// A recognised prefix with an empty id still yields an action, which is then
// rejected by Valid.
func ParseSelection(selectionID string) (PropertyAction, bool) {
	selectionID = strings.TrimSpace(selectionID)
	for _, verb := range actionVerbs {
		prefix := string(verb) + "_"
		if strings.HasPrefix(selectionID, prefix) {
			return PropertyAction{Verb: verb, PropertyID: strings.TrimPrefix(selectionID, prefix)}, true
		}
	}
	return PropertyAction{}, false
}
