package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/storyshare/internal/auth"
	"github.com/crucial707/storyshare/internal/metrics"
	"github.com/crucial707/storyshare/internal/models"
)

// OAuthProvider is the identity provider side of sign-in. *auth.GoogleProvider satisfies it.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Profile(ctx context.Context, code string) (models.User, error)
}

// UserUpserter stores the profile returned by the provider. *repo.UserRepo satisfies it.
type UserUpserter interface {
	UpsertGoogle(ctx context.Context, u models.User) (*models.User, error)
}

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Provider OAuthProvider
	Users    UserUpserter
	Sessions *auth.Sessions
	State    *auth.StateSigner
}

// ==========================
// Google Sign-in
// ==========================

// GoogleLogin issues a signed state, remembers it in the session and sends the browser to Google.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.State.Issue()
	if err != nil {
		h.fail(w, r, "issue oauth state", err)
		return
	}
	if err := h.Sessions.SaveState(w, r, state); err != nil {
		h.fail(w, r, "save oauth state", err)
		return
	}
	http.Redirect(w, r, h.Provider.AuthCodeURL(state), http.StatusFound)
}

// ==========================
// Google Callback
// ==========================

// GoogleCallback verifies state, exchanges the code, stores the profile and signs the user in.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	want := h.Sessions.TakeState(w, r)

	if e := q.Get("error"); e != "" {
		h.fail(w, r, "oauth provider error", errors.New(e))
		return
	}
	if err := h.State.Verify(q.Get("state"), want); err != nil {
		h.fail(w, r, "verify oauth state", err)
		return
	}

	profile, err := h.Provider.Profile(r.Context(), q.Get("code"))
	if err != nil {
		h.fail(w, r, "fetch google profile", err)
		return
	}

	user, err := h.Users.UpsertGoogle(r.Context(), profile)
	if err != nil {
		h.fail(w, r, "store user", err)
		return
	}

	if err := h.Sessions.Login(w, r, user.ID); err != nil {
		h.fail(w, r, "save session", err)
		return
	}

	metrics.IncLogins("success")
	slog.Info("user signed in", "request_id", chimw.GetReqID(r.Context()), "user_id", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// ==========================
// Logout
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r); err != nil {
		logFault(r, "clear session", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// fail logs a sign-in failure and sends the browser back to the login page.
func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	metrics.IncLogins("failure")
	logFault(r, msg, err)
	http.Redirect(w, r, "/?error=signin", http.StatusFound)
}
