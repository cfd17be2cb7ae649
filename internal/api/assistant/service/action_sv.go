package assistantService

import (
	"HomeFinder/internal/api/assistant"
	"HomeFinder/internal/entity"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// HandleAction is the action router: it resolves the property of a decoded
// property action and runs the verb's handler. Every resolved action is
// tracked as a best-effort interaction.
func (s *assistantService) HandleAction(ctx context.Context, t *turn, action assistant.PropertyAction, c entity.Conversation) (entity.Conversation, error) {
	if !action.Valid() {
		t.buttons(msgTryAgain, button(SelectMainMenu, "Main menu"))
		return c, nil
	}

	p, err := t.repo.Properties.GetByID(ctx, action.PropertyID)
	if errors.Is(err, assistant.ErrPropertyNotFound) {
		t.buttons(msgPropertyNotFound,
			button(SelectNewSearch, "New search"),
			button(SelectMainMenu, "Main menu"),
		)
		return c, nil
	}
	if err != nil {
		return c, err
	}

	t.after(s.recordInteraction(c.UserID, p.ID, action.Verb))

	switch action.Verb {
	case assistant.ActionView:
		return s.viewProperty(t, c, p), nil
	case assistant.ActionDetails:
		return s.propertyDetails(t, c, p), nil
	case assistant.ActionGallery:
		return s.showGallery(t, c, p), nil
	case assistant.ActionBook:
		return s.beginBooking(t, c, p), nil
	case assistant.ActionContact:
		return s.contactAgent(t, c, p), nil
	case assistant.ActionSave:
		return s.saveProperty(ctx, t, c, p)
	case assistant.ActionShare:
		return s.shareProperty(t, c, p), nil
	}

	t.text(msgTryAgain)
	return c, nil
}

func (s *assistantService) viewProperty(t *turn, c entity.Conversation, p entity.Property) entity.Conversation {
	t.buttons(propertyCard(p, nil),
		actionButton(assistant.ActionDetails, p.ID, "More details"),
		actionButton(assistant.ActionGallery, p.ID, "Photos"),
		actionButton(assistant.ActionBook, p.ID, "Book tour"),
	)
	c.Context.CurrentPropertyID = p.ID
	return c
}

func (s *assistantService) propertyDetails(t *turn, c entity.Conversation, p entity.Property) entity.Conversation {
	t.buttons(propertyDetails(p),
		actionButton(assistant.ActionContact, p.ID, "Contact agent"),
		actionButton(assistant.ActionSave, p.ID, "Save"),
		actionButton(assistant.ActionShare, p.ID, "Share"),
	)
	c.Context.CurrentPropertyID = p.ID
	return c
}

func (s *assistantService) showGallery(t *turn, c entity.Conversation, p entity.Property) entity.Conversation {
	images := p.Images[:min(s.cfg.GalleryLimit, len(p.Images))]
	if s.s3Client != nil {
		images = s.s3Client.PresignUrls(images)
	}

	c.Context.CurrentPropertyID = p.ID

	if len(images) == 0 {
		t.buttons(fmt.Sprintf("No photos yet for *%s*.", p.Title),
			actionButton(assistant.ActionBook, p.ID, "Book tour"),
			actionButton(assistant.ActionContact, p.ID, "Contact agent"),
		)
		return c
	}

	t.textf("📷 Photos of *%s*:\n%s", p.Title, strings.Join(images, "\n"))
	t.buttons("Like what you see?",
		actionButton(assistant.ActionBook, p.ID, "Book tour"),
		actionButton(assistant.ActionContact, p.ID, "Contact agent"),
		actionButton(assistant.ActionSave, p.ID, "Save"),
	)
	return c
}

func (s *assistantService) contactAgent(t *turn, c entity.Conversation, p entity.Property) entity.Conversation {
	t.buttons(agentContact(p),
		actionButton(assistant.ActionBook, p.ID, "Book tour"),
		button(SelectMainSearch, "New search"),
		button(SelectMainMenu, "Main menu"),
	)

	t.after(s.notifyAgent(p,
		fmt.Sprintf("HomeFinder: a tenant is interested in %s", p.Title),
		fmt.Sprintf("Hello %s,\n\nA HomeFinder user (%s) asked to be put in touch about \"%s\" in %s.\nPlease reach out to them directly.\n",
			p.AgentName, c.UserID, p.Title, p.Location),
	))

	c.Context.CurrentPropertyID = p.ID
	return c
}

func (s *assistantService) saveProperty(ctx context.Context, t *turn, c entity.Conversation, p entity.Property) (entity.Conversation, error) {
	err := t.repo.Users.SaveProperty(ctx, entity.SavedProperty{
		UserID:     c.UserID,
		PropertyID: p.ID,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return c, err
	}

	t.buttons(fmt.Sprintf("💾 Saved *%s* to your list.", p.Title),
		button(SelectSaved, "Saved list"),
		actionButton(assistant.ActionBook, p.ID, "Book tour"),
		button(SelectMainMenu, "Main menu"),
	)
	t.after(s.learnPreference(c.UserID, p))

	c.Context.CurrentPropertyID = p.ID
	return c, nil
}

func (s *assistantService) shareProperty(t *turn, c entity.Conversation, p entity.Property) entity.Conversation {
	t.textf("Share this listing with friends:\n%s\n\n%s", s.listingURL(p.ID), propertyCard(p, nil))
	c.Context.CurrentPropertyID = p.ID
	return c
}

func (s *assistantService) listingURL(propertyID string) string {
	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/properties/" + url.PathEscape(propertyID)
}
