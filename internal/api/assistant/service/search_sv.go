package assistantService

import (
	"HomeFinder/internal/api/assistant"
	"HomeFinder/internal/entity"
	"HomeFinder/pkg/nlp"
	"HomeFinder/pkg/ranking"
	"HomeFinder/pkg/whatsapp"
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

func isSearchPrompt(step entity.Step) bool {
	switch step {
	case entity.StepAwaitingSearchQuery, entity.StepAwaitingSmartSearch, entity.StepAwaitingAdvancedSearch:
		return true
	}
	return false
}

// searchRanked fetches the preference profile and the candidates side by side
// on a non-transactional client and ranks them. An empty userID ranks without
// a profile.
func (s *assistantService) searchRanked(ctx context.Context, userID string, criteria nlp.SearchCriteria) ([]ranking.RankedResult, error) {
	read, err := s.repo.NewClient(false)
	if err != nil {
		return nil, fmt.Errorf("open read client: %w", err)
	}

	var (
		profile    entity.UserPreference
		candidates []entity.Property
	)

	g, gctx := errgroup.WithContext(ctx)
	if userID != "" {
		g.Go(func() error {
			p, err := read.Users.GetPreference(gctx, userID)
			if err != nil {
				return fmt.Errorf("preference profile: %w", err)
			}
			profile = p
			return nil
		})
	}
	g.Go(func() error {
		c, err := read.Properties.SearchCandidates(gctx, filterFor(criteria, s.cfg.CandidateLimit))
		if err != nil {
			return fmt.Errorf("search candidates: %w", err)
		}
		candidates = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.ranker.Rank(candidates, criteria, profile), nil
}

func filterFor(c nlp.SearchCriteria, limit int) entity.PropertyFilter {
	filter := entity.PropertyFilter{Limit: limit}
	if c.Location != nil {
		filter.Location = *c.Location
	}
	if c.PropertyType != nil {
		filter.PropertyType = *c.PropertyType
	}
	if c.PriceRange != nil {
		filter.MinPrice = c.PriceRange.Min
		filter.MaxPrice = c.PriceRange.Max
	}
	if c.Bedrooms != nil {
		n := c.Bedrooms.Min
		filter.Bedrooms = &n
	}
	return filter
}

// runSearch is the query-to-results pipeline. With no results the
// conversation stays in a search-prompting step.
func (s *assistantService) runSearch(ctx context.Context, t *turn, c entity.Conversation, criteria nlp.SearchCriteria) (entity.Conversation, error) {
	ranked, err := s.searchRanked(ctx, c.UserID, criteria)
	if err != nil {
		return c, err
	}

	c.Context.LastCriteria = &criteria
	c.Context.CarouselIndex = 0

	if len(ranked) == 0 {
		c.Context.LastResultIDs = nil
		c.Context.ResultCursor = 0

		t.text(noResultsMessage(criteria))
		t.buttons("Want to look at something else?",
			button(SelectFeatured, "Featured"),
			button(SelectNewSearch, "New search"),
		)

		step := c.Step
		if !isSearchPrompt(step) {
			step = entity.StepAwaitingSearchQuery
		}
		return c.Moved(entity.FlowPropertySearch, step), nil
	}

	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	page := ranked[:min(s.cfg.PageSize, len(ranked))]

	t.textf("I found %d matching properties. Here are the best ones:", len(ranked))
	for _, r := range page {
		s.sendCard(t, r.Property, r.MatchedReasons)
	}

	c.Context.LastResultIDs = ids
	c.Context.ResultCursor = len(page)
	s.paginationFooter(t, c.Context.ResultCursor < len(ids))

	return c.Moved(entity.FlowPropertySearch, entity.StepViewingResults), nil
}

func (s *assistantService) sendCard(t *turn, p entity.Property, reasons []string) {
	t.buttons(propertyCard(p, reasons),
		actionButton(assistant.ActionView, p.ID, "View"),
		actionButton(assistant.ActionBook, p.ID, "Book tour"),
		actionButton(assistant.ActionSave, p.ID, "Save"),
	)
}

func (s *assistantService) paginationFooter(t *turn, more bool) {
	if more {
		t.buttons("Want to see more?",
			button(SelectShowMore, "Show more"),
			button(SelectCompare, "Compare"),
			button(SelectNewSearch, "New search"),
		)
		return
	}
	t.buttons(msgEndOfResults+" Would you like to start a new search?",
		button(SelectNewSearch, "New search"),
		button(SelectMainMenu, "Main menu"),
	)
}

func (s *assistantService) promptNewSearch(t *turn, c entity.Conversation) entity.Conversation {
	t.text(msgNoActiveSearch)
	t.text(msgSearchPrompt)
	return c.Moved(entity.FlowPropertySearch, entity.StepAwaitingSearchQuery)
}

// showMore presents the next page of the stored result ids. Past the end it
// offers a new search instead of starting over.
func (s *assistantService) showMore(ctx context.Context, t *turn, c entity.Conversation) (entity.Conversation, error) {
	ids := c.Context.LastResultIDs
	if len(ids) == 0 {
		return s.promptNewSearch(t, c), nil
	}

	cursor := max(c.Context.ResultCursor, 0)
	if cursor >= len(ids) {
		s.paginationFooter(t, false)
		return c.Moved(entity.FlowPropertySearch, entity.StepViewingResults), nil
	}

	end := min(cursor+s.cfg.PageSize, len(ids))
	properties, err := t.repo.Properties.GetByIDs(ctx, ids[cursor:end])
	if err != nil {
		return c, err
	}

	for _, p := range properties {
		s.sendCard(t, p, nil)
	}

	c.Context.ResultCursor = end
	s.paginationFooter(t, end < len(ids))

	return c.Moved(entity.FlowPropertySearch, entity.StepViewingResults), nil
}

// presentProperties shows a fixed list (featured, saved) with the same
// pagination as a search.
func (s *assistantService) presentProperties(t *turn, c entity.Conversation, header string, properties []entity.Property) entity.Conversation {
	ids := make([]string, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	page := properties[:min(s.cfg.PageSize, len(properties))]

	t.text(header)
	for _, p := range page {
		s.sendCard(t, p, nil)
	}

	c.Context.LastResultIDs = ids
	c.Context.ResultCursor = len(page)
	c.Context.CarouselIndex = 0
	s.paginationFooter(t, len(page) < len(ids))

	return c.Moved(entity.FlowPropertySearch, entity.StepViewingResults)
}

func (s *assistantService) showFeatured(ctx context.Context, t *turn, c entity.Conversation) (entity.Conversation, error) {
	properties, err := t.repo.Properties.GetFeatured(ctx, s.cfg.FeaturedLimit)
	if err != nil {
		return c, err
	}

	if len(properties) == 0 {
		t.buttons(msgNoFeatured,
			button(SelectNewSearch, "New search"),
			button(SelectMainMenu, "Main menu"),
		)
		return c, nil
	}

	return s.presentProperties(t, c, "⭐ *Featured listings*", properties), nil
}

func (s *assistantService) showSaved(ctx context.Context, t *turn, c entity.Conversation) (entity.Conversation, error) {
	properties, err := t.repo.Users.GetSavedProperties(ctx, c.UserID, s.cfg.SavedLimit)
	if err != nil {
		return c, err
	}

	if len(properties) == 0 {
		t.buttons(msgNoSaved,
			button(SelectMainSearch, "Search"),
			button(SelectMainMenu, "Main menu"),
		)
		return c, nil
	}

	return s.presentProperties(t, c, "💾 *Your saved properties*", properties), nil
}

// compare answers with a side-by-side summary of the top stored results and
// leaves the conversation where it was.
func (s *assistantService) compare(ctx context.Context, t *turn, c entity.Conversation) (entity.Conversation, error) {
	ids := c.Context.LastResultIDs
	if len(ids) == 0 {
		t.buttons(msgCompareEmpty, button(SelectNewSearch, "New search"))
		return c, nil
	}

	properties, err := t.repo.Properties.GetByIDs(ctx, ids[:min(s.cfg.CompareLimit, len(ids))])
	if err != nil {
		return c, err
	}
	if len(properties) == 0 {
		t.buttons(msgCompareEmpty, button(SelectNewSearch, "New search"))
		return c, nil
	}

	t.text(comparison(properties))

	viewButtons := make([]whatsapp.Button, 0, len(properties))
	for i, p := range properties {
		viewButtons = append(viewButtons, actionButton(assistant.ActionView, p.ID, fmt.Sprintf("View %d", i+1)))
	}
	t.buttons("Which one would you like to see?", viewButtons...)

	return c, nil
}

// carousel moves one listing at a time through the stored result ids.
// Entering the carousel starts at the first listing.
func (s *assistantService) carousel(ctx context.Context, t *turn, c entity.Conversation, delta int) (entity.Conversation, error) {
	ids := c.Context.LastResultIDs
	if len(ids) == 0 {
		return s.promptNewSearch(t, c), nil
	}

	idx := 0
	if c.Step == entity.StepBrowsingCarousel {
		idx = c.Context.CarouselIndex + delta
	}
	idx = max(0, min(idx, len(ids)-1))

	c.Context.CarouselIndex = idx
	c = c.Moved(entity.FlowPropertySearch, entity.StepBrowsingCarousel)

	p, err := t.repo.Properties.GetByID(ctx, ids[idx])
	if errors.Is(err, assistant.ErrPropertyNotFound) {
		t.text(msgPropertyNotFound)
		t.buttons("Keep browsing?", carouselButtons(idx, len(ids), "")...)
		return c, nil
	}
	if err != nil {
		return c, err
	}

	c.Context.CurrentPropertyID = p.ID
	t.buttons(fmt.Sprintf("%s\n\n(%d of %d)", propertyCard(p, nil), idx+1, len(ids)), carouselButtons(idx, len(ids), p.ID)...)

	return c, nil
}

func carouselButtons(idx, total int, propertyID string) []whatsapp.Button {
	var buttons []whatsapp.Button
	if idx > 0 {
		buttons = append(buttons, button(SelectCarouselPrev, "◀ Previous"))
	}
	if idx < total-1 {
		buttons = append(buttons, button(SelectCarouselNext, "Next ▶"))
	}
	if propertyID != "" {
		buttons = append(buttons, actionButton(assistant.ActionBook, propertyID, "Book tour"))
	} else {
		buttons = append(buttons, button(SelectNewSearch, "New search"))
	}
	return buttons
}

// offerPropertyActions answers a free-text question about the property under
// discussion with its action buttons.
func (s *assistantService) offerPropertyActions(ctx context.Context, t *turn, c entity.Conversation) (entity.Conversation, error) {
	p, err := t.repo.Properties.GetByID(ctx, c.Context.CurrentPropertyID)
	if errors.Is(err, assistant.ErrPropertyNotFound) {
		t.text(msgPropertyNotFound)
		return c, nil
	}
	if err != nil {
		return c, err
	}

	t.buttons(propertyCard(p, nil),
		actionButton(assistant.ActionDetails, p.ID, "More details"),
		actionButton(assistant.ActionBook, p.ID, "Book tour"),
		actionButton(assistant.ActionContact, p.ID, "Contact agent"),
	)
	return c, nil
}
