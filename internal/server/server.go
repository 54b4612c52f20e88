// Package server assembles the HTTP surface of the service.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/learnhub/elearning-api/internal/auth"
	"github.com/learnhub/elearning-api/internal/config"
	"github.com/learnhub/elearning-api/internal/courses"
	"github.com/learnhub/elearning-api/internal/httputil"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/media"
	"github.com/learnhub/elearning-api/internal/middleware"
	"github.com/learnhub/elearning-api/internal/notify"
	"github.com/learnhub/elearning-api/internal/users"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Config   *config.Config
	Logger   logging.Logger
	Users    users.Repository
	Courses  courses.Repository
	Health   Pinger
	Notifier notify.Enqueuer
	// Media is nil when no bucket is configured.
	Media media.Store
	// Now and BcryptCost are overridden by tests.
	Now        func() time.Time
	BcryptCost int
}

func NewRouter(d Deps) http.Handler {
	authMod := auth.Init(d.Config, d.Users, d.Notifier, d.Logger, auth.Options{
		BcryptCost: d.BcryptCost,
		Now:        d.Now,
	})
	courseMod := courses.Init(d.Courses, d.Users, d.Media, d.Notifier, d.Logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))

	r.Get("/", RootHandler)
	r.Get("/healthz", healthHandler(d.Health, d.Logger))

	r.Mount("/api/auth", authMod.Routes())
	r.Mount("/api/courses", courseMod.Routes(authMod.Tokens))

	return r
}

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Welcome to E-LEARNING API"))
}

func healthHandler(p Pinger, logger logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			logger.Warn(ctx, "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
