package handlers

import (
	"net/http"

	"github.com/crucial707/storyshare/internal/auth"
	"github.com/crucial707/storyshare/internal/views"
)

// ==========================
// Index Handler
// ==========================
type IndexHandler struct {
	Stories StoryStore
	Views   *views.Renderer
}

// Login renders the sign-in landing page.
func (h *IndexHandler) Login(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{}
	if r.URL.Query().Get("error") != "" {
		data["Error"] = "Sign in failed, please try again"
	}
	h.Views.Render(w, r, http.StatusOK, views.PageLogin, data)
}

// Dashboard lists every story the caller owns, newest first.
func (h *IndexHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())

	stories, err := h.Stories.ListByUser(r.Context(), caller.ID)
	if err != nil {
		serverError(h.Views, w, r, "list dashboard stories", err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, views.PageDashboard, map[string]interface{}{
		"Stories": stories,
	})
}
