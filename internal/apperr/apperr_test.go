package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", New(ErrNotFound, "user not found"), http.StatusNotFound},
		{"conflict", New(ErrConflict, "User already exists"), http.StatusBadRequest},
		{"bad credential", New(ErrInvalidCredential, "Invalid credentials"), http.StatusBadRequest},
		{"reset token", New(ErrInvalidOrExpiredToken, "Invalid or expired token"), http.StatusBadRequest},
		{"missing token", New(ErrMissingToken, "Access Denied"), http.StatusUnauthorized},
		{"invalid token", New(ErrInvalidToken, "Invalid Token"), http.StatusForbidden},
		{"forbidden", New(ErrForbidden, "Forbidden"), http.StatusForbidden},
		{"validation", Validation(errors.New("name: cannot be blank.")), http.StatusBadRequest},
		{"rate limit", New(ErrTooManyRequests, "slow down"), http.StatusTooManyRequests},
		{"unavailable", New(ErrUnavailable, "storage offline"), http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("login: %w", New(ErrNotFound, "user not found")), http.StatusNotFound},
		{"unclassified", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessage_HidesInternalDetails(t *testing.T) {
	assert.Equal(t, "Internal Server Error", Message(errors.New("dial tcp 10.0.0.1:5432: refused")))
	assert.Equal(t, "Internal Server Error", Message(New(ErrInternal, "pool exhausted")))
	assert.Equal(t, "user not found", Message(fmt.Errorf("ctx: %w", New(ErrNotFound, "user not found"))))
}

func TestErrorMatchesKindAndIdentity(t *testing.T) {
	errUserNotFound := New(ErrNotFound, "user not found")
	wrapped := fmt.Errorf("find: %w", errUserNotFound)

	assert.ErrorIs(t, wrapped, errUserNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrConflict)
	assert.Nil(t, Validation(nil))
}
