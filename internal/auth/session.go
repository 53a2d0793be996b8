package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"github.com/crucial707/storyshare/internal/models"
)

const (
	// SessionName is the cookie name of the session.
	SessionName = "storyshare_session"

	sessionUserKey  = "user_id"
	sessionStateKey = "oauth_state"
)

// Caller is the identity of the request's user. The zero value is an anonymous caller.
type Caller struct {
	ID          string
	DisplayName string
	FirstName   string
	Image       string
}

func (c Caller) Authenticated() bool {
	return c.ID != ""
}

func callerFromUser(u *models.User) Caller {
	return Caller{ID: u.ID, DisplayName: u.DisplayName, FirstName: u.FirstName, Image: u.Image}
}

type callerKey struct{}

// WithCaller returns a copy of ctx carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller stored by LoadCaller, or an anonymous caller.
func CallerFrom(ctx context.Context) Caller {
	c, _ := ctx.Value(callerKey{}).(Caller)
	return c
}

// UserLookup resolves a session's user id to a user. It returns nil, nil for unknown ids.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Sessions ties the cookie store to user lookups.
type Sessions struct {
	store sessions.Store
	users UserLookup
}

// NewCookieStore returns a signed cookie store. secure marks cookies HTTPS-only.
func NewCookieStore(secret []byte, maxAge time.Duration, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func NewSessions(store sessions.Store, users UserLookup) *Sessions {
	return &Sessions{store: store, users: users}
}

// Login records userID in the session.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID string) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values[sessionUserKey] = userID
	delete(session.Values, sessionStateKey)
	return session.Save(r, w)
}

// Logout expires the session cookie.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// SaveState remembers the OAuth state issued to this browser.
func (s *Sessions) SaveState(w http.ResponseWriter, r *http.Request, state string) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values[sessionStateKey] = state
	return session.Save(r, w)
}

// TakeState returns and clears the remembered OAuth state.
func (s *Sessions) TakeState(w http.ResponseWriter, r *http.Request) string {
	session, _ := s.store.Get(r, SessionName)
	state, _ := session.Values[sessionStateKey].(string)
	if state != "" {
		delete(session.Values, sessionStateKey)
		if err := session.Save(r, w); err != nil {
			slog.Warn("clear oauth state", "request_id", chimw.GetReqID(r.Context()), "err", err)
		}
	}
	return state
}

// LoadCaller resolves the session's user and stores it in the request context.
// Unreadable cookies and unknown users leave the caller anonymous. A caller already
// in the context is kept without a lookup.
func (s *Sessions) LoadCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerFrom(r.Context()).ID != "" {
			next.ServeHTTP(w, r)
			return
		}
		session, err := s.store.Get(r, SessionName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		userID, _ := session.Values[sessionUserKey].(string)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.GetByID(r.Context(), userID)
		if err != nil {
			slog.Error("load session user",
				"request_id", chimw.GetReqID(r.Context()),
				"user_id", userID,
				"err", err)
			next.ServeHTTP(w, r)
			return
		}
		if user == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), callerFromUser(user))))
	})
}

// EnsureAuth sends anonymous callers to the login page.
func EnsureAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CallerFrom(r.Context()).Authenticated() {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// EnsureGuest sends signed-in callers to their dashboard.
func EnsureGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerFrom(r.Context()).Authenticated() {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
