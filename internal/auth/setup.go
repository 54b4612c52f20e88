package auth

import (
	"net/http"
	"time"

	"github.com/learnhub/elearning-api/internal/config"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/middleware"
	"github.com/learnhub/elearning-api/internal/notify"
	"github.com/learnhub/elearning-api/internal/users"
)

// Module wires the auth services together. Tokens doubles as the verifier
// for every protected route in the service.
type Module struct {
	Tokens        *TokenManager
	Hasher        *PasswordHasher
	Authenticator *Authenticator
	Resets        *ResetManager
	Handlers      *Handlers
	limiter       *middleware.IPRateLimiter
}

type Options struct {
	BcryptCost int
	Now        func() time.Time
}

func Init(cfg *config.Config, repo users.Repository, notifier notify.Enqueuer, logger logging.Logger, opts Options) *Module {
	logger = logger.With("component", "auth")
	hasher := NewPasswordHasher(opts.BcryptCost)
	tokens := NewTokenManager(cfg.AccessTokenSecret, cfg.SessionTTL, opts.Now)
	authn := NewAuthenticator(repo, hasher, tokens, notifier, logger)
	resets := NewResetManager(repo, hasher, notifier, logger, cfg.ResetTokenTTL, cfg.AppBaseURL, opts.Now)

	return &Module{
		Tokens:        tokens,
		Hasher:        hasher,
		Authenticator: authn,
		Resets:        resets,
		Handlers:      NewHandlers(authn, resets, repo, logger),
		limiter:       middleware.NewIPRateLimiter(cfg.ResetRatePerMin),
	}
}

func (m *Module) Routes() http.Handler {
	return SetupRoutes(m.Handlers, m.Tokens, m.limiter)
}
