// Package views renders the HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/storyshare/internal/auth"
)

//go:embed templates
var templatesFS embed.FS

// Page names.
const (
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PageStories   = "stories/index"
	PageAddStory  = "stories/add"
	PageEditStory = "stories/edit"
	PageShowStory = "stories/show"
	PageNotFound  = "error/404"
	PageError     = "error/500"
)

var layoutPages = []string{PageDashboard, PageStories, PageAddStory, PageEditStory, PageShowStory, PageNotFound, PageError}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page once. Each layout page is parsed together with layout.html.
func New() (*Renderer, error) {
	v := &Renderer{pages: make(map[string]*template.Template)}

	login, err := template.New("").Funcs(funcMap()).ParseFS(templatesFS, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login: %w", err)
	}
	v.pages[PageLogin] = login

	for _, name := range layoutPages {
		t, err := template.New("").Funcs(funcMap()).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Render writes page name with status. The request's caller is exposed to templates as .Caller.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) {
	t, ok := v.pages[name]
	if !ok {
		slog.Error("unknown page", "page", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["Caller"] = auth.CallerFrom(r.Context())

	root := "layout"
	if name == PageLogin {
		root = "login"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, root, data); err != nil {
		slog.Error("template execute",
			"request_id", chimw.GetReqID(r.Context()),
			"page", name,
			"err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFound renders the 404 page.
func (v *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusNotFound, PageNotFound, nil)
}

// ServerError renders the generic 500 page.
func (v *Renderer) ServerError(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusInternalServerError, PageError, nil)
}
