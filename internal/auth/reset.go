package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/learnhub/elearning-api/internal/apperr"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/notify"
	"github.com/learnhub/elearning-api/internal/users"
)

const resetTokenBytes = 32

var ErrResetTokenInvalid = apperr.New(apperr.ErrInvalidOrExpiredToken, "Invalid or expired token")

// ResetManager runs the forgot/reset password flow. A user holds at most one
// pending token; issuing a new one overwrites the old.
type ResetManager struct {
	users    users.Repository
	hasher   *PasswordHasher
	notifier notify.Enqueuer
	logger   logging.Logger
	ttl      time.Duration
	baseURL  string
	now      func() time.Time
	newToken func() (string, error)
}

func NewResetManager(repo users.Repository, hasher *PasswordHasher, notifier notify.Enqueuer, logger logging.Logger, ttl time.Duration, baseURL string, now func() time.Time) *ResetManager {
	if now == nil {
		now = time.Now
	}
	return &ResetManager{
		users:    repo,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
		ttl:      ttl,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      now,
		newToken: randomHex,
	}
}

func randomHex() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Issue stores a new reset token for the account behind email and queues
// the reset link. The returned token is for callers that deliver it
// themselves; the HTTP handler discards it.
func (m *ResetManager) Issue(ctx context.Context, email string) (string, error) {
	u, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := m.newToken()
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	if err := m.users.SetResetToken(ctx, u.ID, token, m.now().UTC().Add(m.ttl)); err != nil {
		return "", err
	}

	link := m.baseURL + "/reset-password/" + token
	m.notifier.Enqueue(notify.PasswordResetMessage(u.Email, link, m.ttl))
	m.logger.Info(ctx, "password reset issued", "user_id", u.ID)
	return token, nil
}

// Redeem sets a new password for the holder of a live token and clears the
// token so it cannot be replayed.
func (m *ResetManager) Redeem(ctx context.Context, token string, req ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if token == "" {
		return ErrResetTokenInvalid
	}

	u, err := m.users.FindByResetToken(ctx, token, m.now().UTC())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hash, err := m.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := m.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	m.notifier.Enqueue(notify.PasswordChangedMessage(u.Email))
	m.logger.Info(ctx, "password reset redeemed", "user_id", u.ID)
	return nil
}
