package courses

import (
	"net/http"

	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/media"
	"github.com/learnhub/elearning-api/internal/middleware"
	"github.com/learnhub/elearning-api/internal/notify"
	"github.com/learnhub/elearning-api/internal/users"
)

type Module struct {
	Service  *Service
	Handlers *Handlers
}

func Init(repo Repository, userRepo users.Repository, store media.Store, notifier notify.Enqueuer, logger logging.Logger) *Module {
	logger = logger.With("component", "courses")
	svc := NewService(repo, userRepo, store, notifier, logger)
	return &Module{Service: svc, Handlers: NewHandlers(svc, logger)}
}

func (m *Module) Routes(verifier middleware.TokenVerifier) http.Handler {
	return SetupRoutes(m.Handlers, verifier)
}
