package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnhub/elearning-api/internal/access"
	"github.com/learnhub/elearning-api/internal/middleware"
)

func SetupRoutes(h *Handlers, verifier middleware.TokenVerifier, limiter *middleware.IPRateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Post("/signup", h.SignupHandler)
	r.Post("/login", h.LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/forgot-password", h.ForgotPasswordHandler)
		r.Post("/reset-password/{resetToken}", h.ResetPasswordHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.TokenMiddleware(verifier))
		r.Get("/me", h.MeHandler)
		r.With(middleware.RequireRole(access.RoleInstructor)).Get("/users", h.ListUsersHandler)
	})

	return r
}
