package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/storyshare/internal/auth"
	"github.com/crucial707/storyshare/internal/config"
	"github.com/crucial707/storyshare/internal/handlers"
	"github.com/crucial707/storyshare/internal/middleware"
	"github.com/crucial707/storyshare/internal/repo"
	"github.com/crucial707/storyshare/internal/views"
)

// newRouter wires repositories, sessions and handlers onto a chi router. limiter guards the /auth routes.
func newRouter(database *sql.DB, cfg config.Config, v *views.Renderer, provider handlers.OAuthProvider, limiter *middleware.IPRateLimiter) http.Handler {
	storyRepo := repo.NewStoryRepo(database)
	userRepo := repo.NewUserRepo(database)

	secret := []byte(cfg.SessionSecret)
	sessions := auth.NewSessions(auth.NewCookieStore(secret, cfg.SessionMaxAge(), cfg.UseTLS()), userRepo)

	stories := handlers.NewStoryHandler(storyRepo, v)
	index := &handlers.IndexHandler{Stories: storyRepo, Views: v}
	authH := &handlers.AuthHandler{
		Provider: provider,
		Users:    userRepo,
		Sessions: sessions,
		State:    auth.NewStateSigner(secret, 0),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer(v.ServerError))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.UseTLS()))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
	// HTML forms can only POST; _method=PUT|DELETE selects the route.
	r.Use(gorillahandlers.HTTPMethodOverrideHandler)

	r.NotFound(sessions.LoadCaller(http.HandlerFunc(v.NotFound)).ServeHTTP)

	// Health and metrics never touch the session.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(sessions.LoadCaller)

		r.With(auth.EnsureGuest).Get("/", index.Login)
		r.With(auth.EnsureAuth).Get("/dashboard", index.Dashboard)

		r.Route("/auth", func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Get("/google", authH.GoogleLogin)
			r.Get("/google/callback", authH.GoogleCallback)
			r.Get("/logout", authH.Logout)
		})

		r.Route("/stories", func(r chi.Router) {
			r.Get("/", stories.List)
			r.Get("/user/{userId}", stories.ListByUser)
			r.Get("/{id}", stories.Show)

			r.Group(func(r chi.Router) {
				r.Use(auth.EnsureAuth)
				r.Get("/add", stories.AddForm)
				r.Post("/", stories.Create)
				r.Get("/edit/{id}", stories.EditForm)
				r.Put("/{id}", stories.Update)
				r.Delete("/{id}", stories.Delete)
			})
		})
	})

	return r
}
