package courses

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnhub/elearning-api/internal/access"
	"github.com/learnhub/elearning-api/internal/middleware"
)

func SetupRoutes(h *Handlers, verifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListHandler)
	r.Get("/{id}", h.GetHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.TokenMiddleware(verifier))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(access.RoleInstructor))
			r.Post("/", h.CreateHandler)
			r.Patch("/{id}", h.UpdateHandler)
			r.Delete("/{id}", h.DeleteHandler)
			r.Post("/{id}/media", h.UploadMediaHandler)
		})

		r.With(middleware.RequireRole(access.RoleStudent)).Post("/{id}/enroll", h.EnrollHandler)
	})

	return r
}
