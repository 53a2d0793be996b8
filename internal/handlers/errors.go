package handlers

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/storyshare/internal/views"
)

// logFault records a handler-boundary failure. Details stay in the log; callers only ever
// see the not-found or server-error page.
func logFault(r *http.Request, msg string, err error, attrs ...any) {
	args := []any{
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	}
	slog.Error(msg, append(args, attrs...)...)
}

// notFound logs err (when set) and renders the 404 page.
func notFound(v *views.Renderer, w http.ResponseWriter, r *http.Request, msg string, err error) {
	if err != nil {
		logFault(r, msg, err)
	}
	v.NotFound(w, r)
}

// serverError logs err and renders the 500 page.
func serverError(v *views.Renderer, w http.ResponseWriter, r *http.Request, msg string, err error) {
	logFault(r, msg, err)
	v.ServerError(w, r)
}
