package assistantService

import (
	"HomeFinder/internal/api/assistant"
	assistantRepository "HomeFinder/internal/api/assistant/repository"
	"HomeFinder/internal/entity"
	"context"
	"strings"
	"sync"
	"time"
)

// fakeStore is an in-memory property, user and conversation store. Writes
// through a transactional client are staged until Commit.
type fakeStore struct {
	mu            sync.Mutex
	conversations map[string]entity.Conversation
	properties    map[string]entity.Property
	order         []string
	preferences   map[string]entity.UserPreference
	saved         map[string][]string
	interactions  []entity.Interaction
	bookings      []entity.TourBooking
	filters       []entity.PropertyFilter

	failSearch error
	failSave   error
	failRecord error
}

func newFakeStore(properties ...entity.Property) *fakeStore {
	s := &fakeStore{
		conversations: map[string]entity.Conversation{},
		properties:    map[string]entity.Property{},
		preferences:   map[string]entity.UserPreference{},
		saved:         map[string][]string{},
	}
	for _, p := range properties {
		s.properties[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	return s
}

func (s *fakeStore) conversation(userID string) (entity.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[userID]
	return c, ok
}

func (s *fakeStore) putConversation(c entity.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[c.UserID] = c
}

type fakeRepo struct {
	store *fakeStore
}

func (r *fakeRepo) NewClient(tx bool) (assistantRepository.Client, error) {
	c := &fakeClient{store: r.store, tx: tx}
	return assistantRepository.Client{
		Conversations: c,
		Properties:    c,
		Users:         c,
		Interactions:  c,
		Bookings:      c,
		Commit:        c.commit,
		Rollback:      c.rollback,
	}, nil
}

type fakeClient struct {
	store   *fakeStore
	tx      bool
	pending []func()
	done    bool
}

func (c *fakeClient) write(fn func()) {
	if c.tx {
		c.pending = append(c.pending, fn)
		return
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	fn()
}

func (c *fakeClient) commit() error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	for _, fn := range c.pending {
		fn()
	}
	c.pending = nil
	c.done = true
	return nil
}

func (c *fakeClient) rollback() error {
	c.pending = nil
	return nil
}

func (c *fakeClient) GetByUserID(_ context.Context, userID string) (entity.Conversation, error) {
	conv, ok := c.store.conversation(userID)
	if !ok {
		return entity.Conversation{}, assistant.ErrConversationNotFound
	}
	return conv, nil
}

func (c *fakeClient) Save(_ context.Context, conversation entity.Conversation) error {
	if c.store.failSave != nil {
		return c.store.failSave
	}
	c.write(func() {
		conversation.Archived = false
		c.store.conversations[conversation.UserID] = conversation
	})
	return nil
}

func (c *fakeClient) ArchiveIdle(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	c.store.mu.Lock()
	for _, conv := range c.store.conversations {
		if !conv.Archived && conv.LastActivity.Before(cutoff) {
			n++
		}
	}
	c.store.mu.Unlock()

	c.write(func() {
		for id, conv := range c.store.conversations {
			if !conv.Archived && conv.LastActivity.Before(cutoff) {
				conv.Archived = true
				conv.Flow = entity.FlowDefault
				conv.Step = entity.StepNone
				conv.Context = entity.ConversationContext{}
				c.store.conversations[id] = conv
			}
		}
	})
	return n, nil
}

func (c *fakeClient) SearchCandidates(_ context.Context, filter entity.PropertyFilter) ([]entity.Property, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	c.store.filters = append(c.store.filters, filter)
	if c.store.failSearch != nil {
		return nil, c.store.failSearch
	}

	var out []entity.Property
	for _, id := range c.store.order {
		p := c.store.properties[id]
		if !p.IsAvailable || !matchesFilter(p, filter) {
			continue
		}
		out = append(out, p)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func matchesFilter(p entity.Property, f entity.PropertyFilter) bool {
	if f.Location != "" {
		hit := false
		for _, w := range strings.Fields(strings.ToLower(f.Location)) {
			if strings.Contains(strings.ToLower(p.Location), w) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.PropertyType != "" && p.PropertyType != f.PropertyType {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Bedrooms != nil && p.Bedrooms != *f.Bedrooms {
		return false
	}
	return true
}

func (c *fakeClient) GetByID(_ context.Context, id string) (entity.Property, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	p, ok := c.store.properties[id]
	if !ok {
		return entity.Property{}, assistant.ErrPropertyNotFound
	}
	return p, nil
}

func (c *fakeClient) GetByIDs(_ context.Context, ids []string) ([]entity.Property, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	var out []entity.Property
	for _, id := range ids {
		if p, ok := c.store.properties[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeClient) GetFeatured(_ context.Context, limit int) ([]entity.Property, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	var out []entity.Property
	for _, id := range c.store.order {
		if p := c.store.properties[id]; p.IsFeatured && p.IsAvailable && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeClient) GetPreference(_ context.Context, userID string) (entity.UserPreference, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if p, ok := c.store.preferences[userID]; ok {
		return p, nil
	}
	return entity.UserPreference{UserID: userID}, nil
}

func (c *fakeClient) UpsertPreference(_ context.Context, pref entity.UserPreference) error {
	c.write(func() {
		c.store.preferences[pref.UserID] = pref
	})
	return nil
}

func (c *fakeClient) SaveProperty(_ context.Context, saved entity.SavedProperty) error {
	c.write(func() {
		for _, id := range c.store.saved[saved.UserID] {
			if id == saved.PropertyID {
				return
			}
		}
		c.store.saved[saved.UserID] = append(c.store.saved[saved.UserID], saved.PropertyID)
	})
	return nil
}

func (c *fakeClient) GetSavedProperties(_ context.Context, userID string, limit int) ([]entity.Property, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	var out []entity.Property
	for _, id := range c.store.saved[userID] {
		if p, ok := c.store.properties[id]; ok && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeClient) Record(_ context.Context, interaction entity.Interaction) error {
	if c.store.failRecord != nil {
		return c.store.failRecord
	}
	c.write(func() {
		c.store.interactions = append(c.store.interactions, interaction)
	})
	return nil
}

func (c *fakeClient) Create(_ context.Context, booking entity.TourBooking) error {
	c.write(func() {
		c.store.bookings = append(c.store.bookings, booking)
	})
	return nil
}

type fakeRedis struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{seen: map[string]bool{}}
}

func (r *fakeRedis) MarkEventProcessed(_ context.Context, eventID string, _ time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[eventID] {
		return false, nil
	}
	r.seen[eventID] = true
	return true, nil
}

func (r *fakeRedis) ForgetEvent(_ context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seen, eventID)
	return nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) NotifyAgent(agentEmail, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{agentEmail, subject, body})
	return nil
}

type fakeS3 struct{}

func (fakeS3) PresignUrl(fileUrl string) (string, error) {
	return "signed:" + fileUrl, nil
}

func (f fakeS3) PresignUrls(fileUrls []string) []string {
	out := make([]string, 0, len(fileUrls))
	for _, u := range fileUrls {
		s, _ := f.PresignUrl(u)
		out = append(out, s)
	}
	return out
}
