package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/storyshare/internal/auth"
	"github.com/crucial707/storyshare/internal/config"
	"github.com/crucial707/storyshare/internal/db"
	"github.com/crucial707/storyshare/internal/middleware"
	"github.com/crucial707/storyshare/internal/repo"
	"github.com/crucial707/storyshare/internal/scheduler"
	"github.com/crucial707/storyshare/internal/views"
)

// Idle sign-in rate limiter buckets are swept on this schedule.
const (
	limiterSweepSpec = "@every 10m"
	limiterMaxIdle   = 30 * time.Minute
)

func main() {
	if err := config.LoadEnvFile(os.Getenv("CONFIG_FILE")); err != nil {
		slog.Error("load env file", "err", err)
		os.Exit(1)
	}
	cfg := config.Load()
	setupLogger(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ==========================
	// Database
	// ==========================
	database, err := db.Connect(ctx, cfg.DSN(), cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		slog.Error("connect database", "err", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Run(cfg.DSN()); err != nil {
		slog.Error("run migrations", "err", err)
		os.Exit(1)
	}

	// ==========================
	// HTTP
	// ==========================
	v, err := views.New()
	if err != nil {
		slog.Error("parse templates", "err", err)
		os.Exit(1)
	}
	provider := auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	limiter := middleware.AuthRateLimiter(cfg.AuthRatePerMinute)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg, v, provider, limiter),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	schedDone := startScheduler(ctx, cfg.MetricsRefreshCron, repo.NewStoryRepo(database), scheduler.Job{
		Name: "prune rate limiter",
		Spec: limiterSweepSpec,
		Run: func() {
			if n := limiter.Prune(limiterMaxIdle); n > 0 {
				slog.Info("pruned idle rate limiter buckets", "count", n)
			}
		},
	})

	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.Env, "tls", cfg.UseTLS())
		var err error
		if cfg.UseTLS() {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped unexpectedly", "err", err)
			stop()
		}
	}()

	// ==========================
	// Graceful shutdown
	// ==========================
	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "err", err)
	} else {
		slog.Info("server stopped gracefully")
	}

	// The deferred database.Close must not race a refresh still in flight.
	<-schedDone
}

// startScheduler runs the scheduler until ctx is canceled. The returned channel is
// closed once every scheduled job has returned.
func startScheduler(ctx context.Context, spec string, counter scheduler.StoryCounter, jobs ...scheduler.Job) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := scheduler.Run(ctx, spec, counter, jobs...); err != nil {
			slog.Error("scheduler", "err", err)
		}
	}()
	return done
}

// setupLogger installs the default slog logger; format is "json" or "text".
func setupLogger(format string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
