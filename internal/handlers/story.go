package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/crucial707/storyshare/internal/auth"
	"github.com/crucial707/storyshare/internal/models"
	"github.com/crucial707/storyshare/internal/policy"
	"github.com/crucial707/storyshare/internal/views"
)

// StoryStore is the persistence the story routes need. *repo.StoryRepo satisfies it.
// Lookups return nil, nil when the story does not exist.
type StoryStore interface {
	Create(ctx context.Context, story models.Story) (*models.Story, error)
	GetByID(ctx context.Context, id string) (*models.Story, error)
	ListPublic(ctx context.Context) ([]models.Story, error)
	ListPublicByUser(ctx context.Context, userID string) ([]models.Story, error)
	ListByUser(ctx context.Context, userID string) ([]models.Story, error)
	UpdateByID(ctx context.Context, id, title, body, status string) (*models.Story, error)
	DeleteByID(ctx context.Context, id, ownerID string) (bool, error)
}

// ==========================
// Story Handler
// ==========================
type StoryHandler struct {
	Stories  StoryStore
	Views    *views.Renderer
	validate *validator.Validate
}

func NewStoryHandler(stories StoryStore, v *views.Renderer) *StoryHandler {
	validate := validator.New()
	_ = validate.RegisterValidation("storystatus", func(fl validator.FieldLevel) bool {
		return models.ValidStatus(fl.Field().String())
	})
	return &StoryHandler{Stories: stories, Views: v, validate: validate}
}

// storyForm is the submitted story. The owner never comes from the form.
type storyForm struct {
	Title  string `validate:"required,max=255"`
	Body   string `validate:"required"`
	Status string `validate:"storystatus"`
}

// readForm parses title, body and status. An empty status becomes defaultStatus.
func (h *StoryHandler) readForm(r *http.Request, defaultStatus string) (storyForm, error) {
	if err := r.ParseForm(); err != nil {
		return storyForm{}, fmt.Errorf("parse form: %w", err)
	}
	form := storyForm{
		Title:  strings.TrimSpace(r.PostFormValue("title")),
		Body:   r.PostFormValue("body"),
		Status: r.PostFormValue("status"),
	}
	if form.Status == "" {
		form.Status = defaultStatus
	}
	if err := h.validate.Struct(form); err != nil {
		return storyForm{}, fmt.Errorf("validate story: %w", err)
	}
	return form, nil
}

// uuidParam returns the named URL param, or "" when it is not a uuid.
func uuidParam(r *http.Request, param string) string {
	id := chi.URLParam(r, param)
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

//
// ==========================
// Add Form
// ==========================
//

func (h *StoryHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, views.PageAddStory, nil)
}

//
// ==========================
// Create Story
// ==========================
//

func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFrom(r.Context())

	form, err := h.readForm(r, models.StatusPublic)
	if err != nil {
		serverError(h.Views, w, r, "create story: invalid form", err)
		return
	}

	_, err = h.Stories.Create(r.Context(), models.Story{
		Title:  form.Title,
		Body:   form.Body,
		Status: form.Status,
		UserID: caller.ID,
	})
	if err != nil {
		serverError(h.Views, w, r, "create story", err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

//
// ==========================
// List Public Stories
// ==========================
//

func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	stories, err := h.Stories.ListPublic(r.Context())
	if err != nil {
		notFound(h.Views, w, r, "list public stories", err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, views.PageStories, map[string]interface{}{
		"Stories": stories,
	})
}

//
// ==========================
// Edit Form
// ==========================
//

func (h *StoryHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := uuidParam(r, "id")
	if id == "" {
		h.Views.NotFound(w, r)
		return
	}

	story, err := h.Stories.GetByID(r.Context(), id)
	if err != nil {
		serverError(h.Views, w, r, "load story for edit", err)
		return
	}
	if story == nil {
		h.Views.NotFound(w, r)
		return
	}
	if !policy.IsOwner(*story, auth.CallerFrom(r.Context()).ID) {
		http.Redirect(w, r, "/stories", http.StatusFound)
		return
	}

	h.Views.Render(w, r, http.StatusOK, views.PageEditStory, map[string]interface{}{
		"Story": story,
	})
}

//
// ==========================
// Update Story
// ==========================
//

func (h *StoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := uuidParam(r, "id")
	if id == "" {
		h.Views.NotFound(w, r)
		return
	}

	story, err := h.Stories.GetByID(r.Context(), id)
	if err != nil {
		serverError(h.Views, w, r, "load story for update", err)
		return
	}
	if story == nil {
		h.Views.NotFound(w, r)
		return
	}
	if err := policy.RequireOwner(*story, auth.CallerFrom(r.Context()).ID); err != nil {
		http.Redirect(w, r, "/stories", http.StatusFound)
		return
	}

	form, err := h.readForm(r, story.Status)
	if err != nil {
		serverError(h.Views, w, r, "update story: invalid form", err)
		return
	}

	updated, err := h.Stories.UpdateByID(r.Context(), id, form.Title, form.Body, form.Status)
	if err != nil {
		serverError(h.Views, w, r, "update story", err)
		return
	}
	if updated == nil {
		// Deleted between the ownership check and the write.
		h.Views.NotFound(w, r)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

//
// ==========================
// Delete Story
// ==========================
//

// Delete removes the story only when the caller owns it. Missing, foreign and malformed
// ids all end on the dashboard without a change.
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := uuidParam(r, "id")
	if id != "" {
		if _, err := h.Stories.DeleteByID(r.Context(), id, auth.CallerFrom(r.Context()).ID); err != nil {
			serverError(h.Views, w, r, "delete story", err)
			return
		}
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

//
// ==========================
// Show Story
// ==========================
//

func (h *StoryHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := uuidParam(r, "id")
	if id == "" {
		h.Views.NotFound(w, r)
		return
	}

	story, err := h.Stories.GetByID(r.Context(), id)
	if err != nil {
		notFound(h.Views, w, r, "load story", err)
		return
	}
	if story == nil || !policy.CanView(*story, auth.CallerFrom(r.Context()).ID) {
		h.Views.NotFound(w, r)
		return
	}

	h.Views.Render(w, r, http.StatusOK, views.PageShowStory, map[string]interface{}{
		"Story": story,
	})
}

//
// ==========================
// List Stories By User
// ==========================
//

func (h *StoryHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := uuidParam(r, "userId")
	if userID == "" {
		h.Views.NotFound(w, r)
		return
	}

	stories, err := h.Stories.ListPublicByUser(r.Context(), userID)
	if err != nil {
		notFound(h.Views, w, r, "list user stories", err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, views.PageStories, map[string]interface{}{
		"Stories": stories,
	})
}
