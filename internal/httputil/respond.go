// Package httputil writes JSON responses and maps errors onto them.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/learnhub/elearning-api/internal/apperr"
	"github.com/learnhub/elearning-api/internal/logging"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageResponse{Message: msg})
}

// WriteError renders err as {"message": ...} with the status its kind maps
// to. Server errors are logged with the request line when logger is set.
func WriteError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	WriteMessage(w, status, apperr.Message(err))
}

var ErrBadBody = apperr.New(apperr.ErrValidation, "Invalid request body")

// DecodeJSON reads a single JSON object from the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.New(apperr.ErrValidation, "Request body too large")
		}
		return ErrBadBody
	}
	return nil
}
