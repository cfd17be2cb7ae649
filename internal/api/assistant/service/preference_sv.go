package assistantService

import (
	"HomeFinder/internal/api/assistant"
	"HomeFinder/internal/entity"
	"HomeFinder/pkg/nlp"
	"context"
	"fmt"
	"strings"
)

const (
	maxLearnedTypes     = 5
	maxLearnedLocations = 5
	maxLearnedAmenities = 10
	learnedPriceSpread  = 0.25
)

func (s *assistantService) showPreferences(ctx context.Context, t *turn, c entity.Conversation) (entity.Conversation, error) {
	profile, err := t.repo.Users.GetPreference(ctx, c.UserID)
	if err != nil {
		return c, err
	}

	t.text(preferenceSummary(profile))
	t.text(msgPreferencesPrompt)
	return c.Moved(entity.FlowPreferences, entity.StepAwaitingPreferences), nil
}

// updatePreferences stores explicitly stated preferences. Fields mentioned in
// text replace the stored ones.
func (s *assistantService) updatePreferences(ctx context.Context, t *turn, c entity.Conversation, text string) (entity.Conversation, error) {
	criteria := s.parser.ParseQuery(text)
	if !criteria.HasConstraints() {
		t.text(msgPreferencesEmpty)
		return c, nil
	}

	profile, err := t.repo.Users.GetPreference(ctx, c.UserID)
	if err != nil {
		return c, err
	}

	updated := applyStatedPreferences(profile, criteria)
	updated.UserID = c.UserID
	updated.UpdatedAt = s.now()

	if err := t.repo.Users.UpsertPreference(ctx, updated); err != nil {
		return c, err
	}

	t.text(msgPreferencesSaved)
	t.buttons(preferenceSummary(updated),
		button(SelectMainSearch, "Search now"),
		button(SelectMainMenu, "Main menu"),
	)
	return c.Moved(entity.FlowDefault, entity.StepNone), nil
}

func applyStatedPreferences(p entity.UserPreference, c nlp.SearchCriteria) entity.UserPreference {
	if c.PropertyType != nil {
		p.PreferredPropertyTypes = []string{*c.PropertyType}
	}
	if c.Location != nil {
		p.PreferredLocations = []string{*c.Location}
	}
	if c.PriceRange != nil {
		p.PriceMin = c.PriceRange.Min
		p.PriceMax = c.PriceRange.Max
	}
	if len(c.Amenities) > 0 {
		p.PreferredAmenities = append([]string(nil), c.Amenities...)
	}
	return p
}

// learnFromProperty reinforces p with a property the user engaged with. Stated
// budgets are never overridden.
func learnFromProperty(p entity.UserPreference, property entity.Property) entity.UserPreference {
	p.PreferredPropertyTypes = appendUnique(p.PreferredPropertyTypes, maxLearnedTypes, property.PropertyType)
	p.PreferredLocations = appendUnique(p.PreferredLocations, maxLearnedLocations, property.Location)
	p.PreferredAmenities = appendUnique(p.PreferredAmenities, maxLearnedAmenities, property.Amenities...)

	if p.PriceMin == nil && p.PriceMax == nil && property.Price > 0 {
		lo := property.Price * (1 - learnedPriceSpread)
		hi := property.Price * (1 + learnedPriceSpread)
		p.PriceMin = &lo
		p.PriceMax = &hi
	}
	return p
}

func appendUnique(list []string, limit int, values ...string) []string {
	out := append([]string(nil), list...)
	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" || len(out) >= limit {
			continue
		}
		seen := false
		for _, existing := range out {
			if strings.EqualFold(existing, v) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, v)
		}
	}
	return out
}

func (s *assistantService) learnPreference(userID string, property entity.Property) func(ctx context.Context) Effect {
	return func(ctx context.Context) Effect {
		return s.runEffect(ctx, "learn_preference", func(ctx context.Context) error {
			repo, err := s.repo.NewClient(false)
			if err != nil {
				return err
			}
			profile, err := repo.Users.GetPreference(ctx, userID)
			if err != nil {
				return err
			}
			updated := learnFromProperty(profile, property)
			updated.UserID = userID
			updated.UpdatedAt = s.now()
			return repo.Users.UpsertPreference(ctx, updated)
		})
	}
}

func (s *assistantService) recordInteraction(userID, propertyID string, verb assistant.ActionVerb) func(ctx context.Context) Effect {
	return func(ctx context.Context) Effect {
		return s.runEffect(ctx, "record_interaction", func(ctx context.Context) error {
			now := s.now()
			id, err := s.utils.NewULIDFromTimestamp(now)
			if err != nil {
				return err
			}
			repo, err := s.repo.NewClient(false)
			if err != nil {
				return err
			}
			return repo.Interactions.Record(ctx, entity.Interaction{
				ID:         id,
				UserID:     userID,
				PropertyID: propertyID,
				Action:     string(verb),
				CreatedAt:  now,
			})
		})
	}
}

func (s *assistantService) notifyAgent(p entity.Property, subject, body string) func(ctx context.Context) Effect {
	return func(ctx context.Context) Effect {
		if s.mailer == nil || p.AgentEmail == "" {
			return Effect{Name: "notify_agent"}
		}
		return s.runEffect(ctx, "notify_agent", func(ctx context.Context) error {
			if err := s.mailer.NotifyAgent(p.AgentEmail, subject, body); err != nil {
				return fmt.Errorf("mail %s: %w", p.AgentEmail, err)
			}
			return nil
		})
	}
}
