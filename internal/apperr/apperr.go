// Package apperr holds the error kinds shared by every feature package and
// their mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Error kinds. Feature packages wrap one of these with a user-facing message
// through New; handlers only ever look at the kind.
var (
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrInvalidCredential     = errors.New("invalid credential")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrMissingToken          = errors.New("missing token")
	ErrInvalidToken          = errors.New("invalid token")
	ErrForbidden             = errors.New("forbidden")
	ErrValidation            = errors.New("validation failed")
	ErrTooManyRequests       = errors.New("too many requests")
	ErrUnavailable           = errors.New("unavailable")
	ErrInternal              = errors.New("internal error")
)

const internalMessage = "Internal Server Error"

// Error is a classified error carrying the message that is safe to show to
// API callers.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error of the given kind with a caller-facing message.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Validation classifies a validation failure, keeping its text as the message.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrValidation, Message: err.Error()}
}

// Status maps an error onto the HTTP status it should produce.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidCredential),
		errors.Is(err, ErrInvalidOrExpiredToken),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing text for err. Unclassified and internal
// errors never leak their details.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return internalMessage
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return internalMessage
}
