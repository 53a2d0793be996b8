package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/storyshare/internal/auth"
	"github.com/crucial707/storyshare/internal/models"
	"github.com/crucial707/storyshare/internal/views"
)

// memStore is an in-memory StoryStore. errs injects a failure per method name.
type memStore struct {
	mu      sync.Mutex
	stories map[string]models.Story
	users   map[string]*models.User
	clock   time.Time
	errs    map[string]error
}

func newMemStore(users ...*models.User) *memStore {
	s := &memStore{
		stories: map[string]models.Story{},
		users:   map[string]*models.User{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		errs:    map[string]error{},
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memStore) withUser(st models.Story) models.Story {
	st.User = s.users[st.UserID]
	return st
}

func (s *memStore) add(st models.Story) models.Story {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	s.clock = s.clock.Add(time.Minute)
	st.CreatedAt = s.clock
	s.stories[st.ID] = st
	return st
}

func (s *memStore) Create(_ context.Context, st models.Story) (*models.Story, error) {
	if err := s.errs["Create"]; err != nil {
		return nil, err
	}
	st.ID = ""
	out := s.add(st)
	return &out, nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*models.Story, error) {
	if err := s.errs["GetByID"]; err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[id]
	if !ok {
		return nil, nil
	}
	st = s.withUser(st)
	return &st, nil
}

func (s *memStore) filter(keep func(models.Story) bool) []models.Story {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Story{}
	for _, st := range s.stories {
		if keep(st) {
			out = append(out, s.withUser(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *memStore) ListPublic(_ context.Context) ([]models.Story, error) {
	if err := s.errs["ListPublic"]; err != nil {
		return nil, err
	}
	return s.filter(func(st models.Story) bool { return st.Status == models.StatusPublic }), nil
}

func (s *memStore) ListPublicByUser(_ context.Context, userID string) ([]models.Story, error) {
	if err := s.errs["ListPublicByUser"]; err != nil {
		return nil, err
	}
	return s.filter(func(st models.Story) bool {
		return st.UserID == userID && st.Status == models.StatusPublic
	}), nil
}

func (s *memStore) ListByUser(_ context.Context, userID string) ([]models.Story, error) {
	if err := s.errs["ListByUser"]; err != nil {
		return nil, err
	}
	return s.filter(func(st models.Story) bool { return st.UserID == userID }), nil
}

func (s *memStore) UpdateByID(_ context.Context, id, title, body, status string) (*models.Story, error) {
	if err := s.errs["UpdateByID"]; err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[id]
	if !ok {
		return nil, nil
	}
	st.Title, st.Body, st.Status = title, body, status
	s.stories[id] = st
	return &st, nil
}

func (s *memStore) DeleteByID(_ context.Context, id, ownerID string) (bool, error) {
	if err := s.errs["DeleteByID"]; err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[id]
	if !ok || st.UserID != ownerID {
		return false, nil
	}
	delete(s.stories, id)
	return true, nil
}

// snapshot copies the stored stories for before/after comparisons.
func (s *memStore) snapshot() map[string]models.Story {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.Story, len(s.stories))
	for k, v := range s.stories {
		out[k] = v
	}
	return out
}

func newViews(t *testing.T) *views.Renderer {
	t.Helper()
	v, err := views.New()
	require.NoError(t, err)
	return v
}

// newRequest builds a request carrying caller, chi URL params and, when form is set, a urlencoded body.
func newRequest(method, target string, form url.Values, caller auth.Caller, params map[string]string) *http.Request {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = auth.WithCaller(ctx, caller)
	return r.WithContext(ctx)
}
