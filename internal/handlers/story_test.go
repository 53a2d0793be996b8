package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/storyshare/internal/auth"
	"github.com/crucial707/storyshare/internal/models"
)

var (
	ann = &models.User{ID: "11111111-1111-1111-1111-111111111111", DisplayName: "Ann Lee", FirstName: "Ann"}
	bo  = &models.User{ID: "22222222-2222-2222-2222-222222222222", DisplayName: "Bo Chen", FirstName: "Bo"}

	annCaller = auth.Caller{ID: ann.ID, DisplayName: ann.DisplayName, FirstName: ann.FirstName}
	boCaller  = auth.Caller{ID: bo.ID, DisplayName: bo.DisplayName, FirstName: bo.FirstName}
)

func newStoryHandler(t *testing.T) (*StoryHandler, *memStore) {
	t.Helper()
	store := newMemStore(ann, bo)
	return NewStoryHandler(store, newViews(t)), store
}

func formValues(title, body, status string) url.Values {
	return url.Values{"title": {title}, "body": {body}, "status": {status}}
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, location, rr.Header().Get("Location"))
}

//
// ==========================
// Create
// ==========================
//

func TestStoryHandler_Create(t *testing.T) {
	h, store := newStoryHandler(t)

	rr := httptest.NewRecorder()
	h.Create(rr, newRequest(http.MethodPost, "/stories", formValues("A", "B", "public"), annCaller, nil))

	assertRedirect(t, rr, "/dashboard")
	stories := store.snapshot()
	require.Len(t, stories, 1)
	for _, s := range stories {
		assert.Equal(t, "A", s.Title)
		assert.Equal(t, "B", s.Body)
		assert.Equal(t, models.StatusPublic, s.Status)
		assert.Equal(t, ann.ID, s.UserID)
	}
}

func TestStoryHandler_Create_IgnoresSubmittedOwner(t *testing.T) {
	h, store := newStoryHandler(t)

	form := formValues("A", "B", "private")
	form.Set("user", bo.ID)
	form.Set("userId", bo.ID)
	form.Set("user_id", bo.ID)

	rr := httptest.NewRecorder()
	h.Create(rr, newRequest(http.MethodPost, "/stories", form, annCaller, nil))

	assertRedirect(t, rr, "/dashboard")
	for _, s := range store.snapshot() {
		assert.Equal(t, ann.ID, s.UserID)
	}
}

func TestStoryHandler_Create_DefaultsToPublic(t *testing.T) {
	h, store := newStoryHandler(t)

	form := url.Values{"title": {"A"}, "body": {"B"}}
	h.Create(httptest.NewRecorder(), newRequest(http.MethodPost, "/stories", form, annCaller, nil))

	for _, s := range store.snapshot() {
		assert.Equal(t, models.StatusPublic, s.Status)
	}
}

func TestStoryHandler_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"missing title", formValues("", "B", "public")},
		{"blank title", formValues("   ", "B", "public")},
		{"missing body", formValues("A", "", "public")},
		{"bad status", formValues("A", "B", "draft")},
		{"title too long", formValues(strings.Repeat("x", 256), "B", "public")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newStoryHandler(t)

			rr := httptest.NewRecorder()
			h.Create(rr, newRequest(http.MethodPost, "/stories", tt.form, annCaller, nil))

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Empty(t, store.snapshot())
		})
	}
}

func TestStoryHandler_Create_PersistenceFailure(t *testing.T) {
	h, store := newStoryHandler(t)
	store.errs["Create"] = errors.New("db down")

	rr := httptest.NewRecorder()
	h.Create(rr, newRequest(http.MethodPost, "/stories", formValues("A", "B", "public"), annCaller, nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Something went wrong")
}

//
// ==========================
// List
// ==========================
//

func TestStoryHandler_List_PublicOnceNewestFirst(t *testing.T) {
	h, store := newStoryHandler(t)
	store.add(models.Story{Title: "First public", Body: "b", Status: models.StatusPublic, UserID: ann.ID})
	store.add(models.Story{Title: "Hidden private", Body: "b", Status: models.StatusPrivate, UserID: ann.ID})
	store.add(models.Story{Title: "Second public", Body: "b", Status: models.StatusPublic, UserID: bo.ID})

	rr := httptest.NewRecorder()
	h.List(rr, newRequest(http.MethodGet, "/stories", nil, auth.Caller{}, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Equal(t, 1, strings.Count(body, "First public"))
	assert.Equal(t, 1, strings.Count(body, "Second public"))
	assert.NotContains(t, body, "Hidden private")
	assert.Less(t, strings.Index(body, "Second public"), strings.Index(body, "First public"))
	assert.Contains(t, body, "Bo Chen")
}

func TestStoryHandler_List_Empty(t *testing.T) {
	h, _ := newStoryHandler(t)

	rr := httptest.NewRecorder()
	h.List(rr, newRequest(http.MethodGet, "/stories", nil, auth.Caller{}, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No stories to display")
}

func TestStoryHandler_List_QueryError(t *testing.T) {
	h, store := newStoryHandler(t)
	store.errs["ListPublic"] = errors.New("db down")

	rr := httptest.NewRecorder()
	h.List(rr, newRequest(http.MethodGet, "/stories", nil, auth.Caller{}, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

//
// ==========================
// Edit Form
// ==========================
//

func TestStoryHandler_EditForm(t *testing.T) {
	h, store := newStoryHandler(t)
	s := store.add(models.Story{Title: "Mine", Body: "text", Status: models.StatusPrivate, UserID: ann.ID})

	tests := []struct {
		name     string
		id       string
		caller   auth.Caller
		wantCode int
		wantLoc  string
	}{
		{"owner", s.ID, annCaller, http.StatusOK, ""},
		{"not owner", s.ID, boCaller, http.StatusFound, "/stories"},
		{"missing", uuid.NewString(), annCaller, http.StatusNotFound, ""},
		{"malformed id", "nope", annCaller, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.EditForm(rr, newRequest(http.MethodGet, "/stories/edit/"+tt.id, nil, tt.caller, map[string]string{"id": tt.id}))

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rr.Header().Get("Location"))
			}
			if tt.wantCode == http.StatusOK {
				assert.Contains(t, rr.Body.String(), `value="Mine"`)
			}
		})
	}
}

func TestStoryHandler_EditForm_LookupFault(t *testing.T) {
	h, store := newStoryHandler(t)
	store.errs["GetByID"] = errors.New("db down")

	id := uuid.NewString()
	rr := httptest.NewRecorder()
	h.EditForm(rr, newRequest(http.MethodGet, "/stories/edit/"+id, nil, annCaller, map[string]string{"id": id}))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

//
// ==========================
// Update
// ==========================
//

func TestStoryHandler_Update_Owner(t *testing.T) {
	h, store := newStoryHandler(t)
	target := store.add(models.Story{Title: "Old", Body: "old", Status: models.StatusPublic, UserID: ann.ID})
	other := store.add(models.Story{Title: "Other", Body: "other", Status: models.StatusPublic, UserID: ann.ID})
	before := store.snapshot()

	rr := httptest.NewRecorder()
	h.Update(rr, newRequest(http.MethodPut, "/stories/"+target.ID, formValues("New", "new", "private"), annCaller,
		map[string]string{"id": target.ID}))

	assertRedirect(t, rr, "/dashboard")
	after := store.snapshot()
	assert.Equal(t, "New", after[target.ID].Title)
	assert.Equal(t, "new", after[target.ID].Body)
	assert.Equal(t, models.StatusPrivate, after[target.ID].Status)
	assert.Equal(t, ann.ID, after[target.ID].UserID)
	assert.Equal(t, before[other.ID], after[other.ID])
}

func TestStoryHandler_Update_KeepsStatusWhenOmitted(t *testing.T) {
	h, store := newStoryHandler(t)
	s := store.add(models.Story{Title: "Old", Body: "old", Status: models.StatusPrivate, UserID: ann.ID})

	form := url.Values{"title": {"New"}, "body": {"new"}}
	h.Update(httptest.NewRecorder(), newRequest(http.MethodPut, "/stories/"+s.ID, form, annCaller, map[string]string{"id": s.ID}))

	assert.Equal(t, models.StatusPrivate, store.snapshot()[s.ID].Status)
}

func TestStoryHandler_Update_IgnoresSubmittedOwner(t *testing.T) {
	h, store := newStoryHandler(t)
	s := store.add(models.Story{Title: "Old", Body: "old", Status: models.StatusPublic, UserID: ann.ID})

	form := formValues("New", "new", "public")
	form.Set("user", bo.ID)
	h.Update(httptest.NewRecorder(), newRequest(http.MethodPut, "/stories/"+s.ID, form, annCaller, map[string]string{"id": s.ID}))

	assert.Equal(t, ann.ID, store.snapshot()[s.ID].UserID)
}

func TestStoryHandler_Update_NotOwner(t *testing.T) {
	h, store := newStoryHandler(t)
	s := store.add(models.Story{Title: "Old", Body: "old", Status: models.StatusPublic, UserID: ann.ID})
	before := store.snapshot()

	rr := httptest.NewRecorder()
	h.Update(rr, newRequest(http.MethodPut, "/stories/"+s.ID, formValues("Hacked", "hacked", "private"), boCaller,
		map[string]string{"id": s.ID}))

	assertRedirect(t, rr, "/stories")
	assert.Equal(t, before, store.snapshot())
}

func TestStoryHandler_Update_NotFound(t *testing.T) {
	h, store := newStoryHandler(t)
	id := uuid.NewString()

	rr := httptest.NewRecorder()
	h.Update(rr, newRequest(http.MethodPut, "/stories/"+id, formValues("A", "B", "public"), annCaller, map[string]string{"id": id}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, store.snapshot())
}

func TestStoryHandler_Update_Invalid(t *testing.T) {
	h, store := newStoryHandler(t)
	s := store.add(models.Story{Title: "Old", Body: "old", Status: models.StatusPublic, UserID: ann.ID})
	before := store.snapshot()

	rr := httptest.NewRecorder()
	h.Update(rr, newRequest(http.MethodPut, "/stories/"+s.ID, formValues("", "new", "public"), annCaller, map[string]string{"id": s.ID}))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, before, store.snapshot())
}

func TestStoryHandler_Update_UnknownStatus(t *testing.T) {
	h, store := newStoryHandler(t)
	s := store.add(models.Story{Title: "Old", Body: "old", Status: models.StatusPrivate, UserID: ann.ID})
	before := store.snapshot()

	rr := httptest.NewRecorder()
	h.Update(rr, newRequest(http.MethodPut, "/stories/"+s.ID, formValues("New", "new", "PUBLIC"), annCaller, map[string]string{"id": s.ID}))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, before, store.snapshot())
}

func TestStoryHandler_Update_PersistenceFailure(t *testing.T) {
	h, store := newStoryHandler(t)
	s := store.add(models.Story{Title: "Old", Body: "old", Status: models.StatusPublic, UserID: ann.ID})
	store.errs["UpdateByID"] = errors.New("db down")

	rr := httptest.NewRecorder()
	h.Update(rr, newRequest(http.MethodPut, "/stories/"+s.ID, formValues("New", "new", "public"), annCaller, map[string]string{"id": s.ID}))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

//
// ==========================
// Delete
// ==========================
//

func TestStoryHandler_Delete(t *testing.T) {
	h, store := newStoryHandler(t)
	s := store.add(models.Story{Title: "Mine", Body: "b", Status: models.StatusPublic, UserID: ann.ID})

	rr := httptest.NewRecorder()
	h.Delete(rr, newRequest(http.MethodDelete, "/stories/"+s.ID, nil, annCaller, map[string]string{"id": s.ID}))

	assertRedirect(t, rr, "/dashboard")
	assert.Empty(t, store.snapshot())
}

func TestStoryHandler_Delete_NoOpCasesRedirectTheSame(t *testing.T) {
	h, store := newStoryHandler(t)
	s := store.add(models.Story{Title: "Mine", Body: "b", Status: models.StatusPublic, UserID: ann.ID})
	before := store.snapshot()

	tests := []struct {
		name   string
		id     string
		caller auth.Caller
	}{
		{"missing id", uuid.NewString(), annCaller},
		{"not owner", s.ID, boCaller},
		{"malformed id", "not-a-uuid", annCaller},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Delete(rr, newRequest(http.MethodDelete, "/stories/"+tt.id, nil, tt.caller, map[string]string{"id": tt.id}))

			assertRedirect(t, rr, "/dashboard")
			assert.Equal(t, before, store.snapshot())
		})
	}
}

func TestStoryHandler_Delete_PersistenceFailure(t *testing.T) {
	h, store := newStoryHandler(t)
	store.errs["DeleteByID"] = errors.New("db down")

	id := uuid.NewString()
	rr := httptest.NewRecorder()
	h.Delete(rr, newRequest(http.MethodDelete, "/stories/"+id, nil, annCaller, map[string]string{"id": id}))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

//
// ==========================
// Show
// ==========================
//

func TestStoryHandler_Show(t *testing.T) {
	h, store := newStoryHandler(t)
	pub := store.add(models.Story{Title: "Open", Body: "hello", Status: models.StatusPublic, UserID: ann.ID})
	priv := store.add(models.Story{Title: "Secret", Body: "shh", Status: models.StatusPrivate, UserID: ann.ID})

	tests := []struct {
		name     string
		id       string
		caller   auth.Caller
		wantCode int
	}{
		{"public anonymous", pub.ID, auth.Caller{}, http.StatusOK},
		{"public other user", pub.ID, boCaller, http.StatusOK},
		{"private owner", priv.ID, annCaller, http.StatusOK},
		{"private other user", priv.ID, boCaller, http.StatusNotFound},
		{"private anonymous", priv.ID, auth.Caller{}, http.StatusNotFound},
		{"missing", uuid.NewString(), auth.Caller{}, http.StatusNotFound},
		{"malformed id", "add-me", auth.Caller{}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Show(rr, newRequest(http.MethodGet, "/stories/"+tt.id, nil, tt.caller, map[string]string{"id": tt.id}))
			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}

func TestStoryHandler_Show_JoinsOwner(t *testing.T) {
	h, store := newStoryHandler(t)
	s := store.add(models.Story{Title: "Open", Body: "hello", Status: models.StatusPublic, UserID: ann.ID})

	rr := httptest.NewRecorder()
	h.Show(rr, newRequest(http.MethodGet, "/stories/"+s.ID, nil, auth.Caller{}, map[string]string{"id": s.ID}))

	body := rr.Body.String()
	assert.Contains(t, body, "Open")
	assert.Contains(t, body, "More From Ann")
	assert.NotContains(t, body, "/stories/edit/"+s.ID)
}

func TestStoryHandler_Show_LookupFault(t *testing.T) {
	h, store := newStoryHandler(t)
	store.errs["GetByID"] = errors.New("db down")

	id := uuid.NewString()
	rr := httptest.NewRecorder()
	h.Show(rr, newRequest(http.MethodGet, "/stories/"+id, nil, auth.Caller{}, map[string]string{"id": id}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

//
// ==========================
// List By User
// ==========================
//

func TestStoryHandler_ListByUser(t *testing.T) {
	h, store := newStoryHandler(t)
	store.add(models.Story{Title: "Ann public", Body: "b", Status: models.StatusPublic, UserID: ann.ID})
	store.add(models.Story{Title: "Ann private", Body: "b", Status: models.StatusPrivate, UserID: ann.ID})
	store.add(models.Story{Title: "Bo public", Body: "b", Status: models.StatusPublic, UserID: bo.ID})

	rr := httptest.NewRecorder()
	h.ListByUser(rr, newRequest(http.MethodGet, "/stories/user/"+ann.ID, nil, annCaller, map[string]string{"userId": ann.ID}))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Ann public")
	assert.NotContains(t, body, "Ann private")
	assert.NotContains(t, body, "Bo public")
}

func TestStoryHandler_ListByUser_Empty(t *testing.T) {
	h, _ := newStoryHandler(t)
	id := uuid.NewString()

	rr := httptest.NewRecorder()
	h.ListByUser(rr, newRequest(http.MethodGet, "/stories/user/"+id, nil, auth.Caller{}, map[string]string{"userId": id}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No stories to display")
}

func TestStoryHandler_ListByUser_Errors(t *testing.T) {
	h, store := newStoryHandler(t)

	rr := httptest.NewRecorder()
	h.ListByUser(rr, newRequest(http.MethodGet, "/stories/user/x", nil, auth.Caller{}, map[string]string{"userId": "x"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	store.errs["ListPublicByUser"] = errors.New("db down")
	rr = httptest.NewRecorder()
	h.ListByUser(rr, newRequest(http.MethodGet, "/stories/user/"+ann.ID, nil, auth.Caller{}, map[string]string{"userId": ann.ID}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStoryHandler_AddForm(t *testing.T) {
	h, _ := newStoryHandler(t)

	rr := httptest.NewRecorder()
	h.AddForm(rr, newRequest(http.MethodGet, "/stories/add", nil, annCaller, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `action="/stories"`)
}
