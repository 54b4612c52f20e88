package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/learnhub/elearning-api/internal/apperr"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/notify"
	"github.com/learnhub/elearning-api/internal/users"
)

var ErrInvalidCredentials = apperr.New(apperr.ErrInvalidCredential, "Invalid credentials")

// Authenticator registers accounts and exchanges credentials for session
// tokens.
type Authenticator struct {
	users    users.Repository
	hasher   *PasswordHasher
	tokens   *TokenManager
	notifier notify.Enqueuer
	logger   logging.Logger
}

func NewAuthenticator(repo users.Repository, hasher *PasswordHasher, tokens *TokenManager, notifier notify.Enqueuer, logger logging.Logger) *Authenticator {
	return &Authenticator{
		users:    repo,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
	}
}

// Signup creates an account. Email uniqueness is left to the store so two
// racing signups cannot both succeed.
func (a *Authenticator) Signup(ctx context.Context, req SignupRequest) (*users.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &users.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        users.NormalizeEmail(req.Email),
		Role:         req.Role,
		PasswordHash: hash,
	}
	if err := a.users.Create(ctx, u); err != nil {
		return nil, err
	}

	a.logger.Info(ctx, "user signed up", "user_id", u.ID, "role", u.Role)
	a.notifier.Enqueue(notify.WelcomeMessage(u.Email, u.Name))
	return u, nil
}

// Login returns a fresh session token. An unknown email is reported as
// not found, a wrong password as an invalid credential.
func (a *Authenticator) Login(ctx context.Context, req LoginRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	u, err := a.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if !a.hasher.Verify(req.Password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(u.Identity())
	if err != nil {
		return "", err
	}
	return token, nil
}
