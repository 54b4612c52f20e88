package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/elearning-api/internal/apperr"
	"github.com/learnhub/elearning-api/internal/logging"
)

type recordingLogger struct {
	errors []string
}

func (l *recordingLogger) Debug(context.Context, string, ...any) {}
func (l *recordingLogger) Info(context.Context, string, ...any)  {}
func (l *recordingLogger) Warn(context.Context, string, ...any)  {}
func (l *recordingLogger) Error(_ context.Context, msg string, _ ...any) {
	l.errors = append(l.errors, msg)
}
func (l *recordingLogger) With(...any) logging.Logger { return l }

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body MessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Message
}

func TestWriteError_ClassifiedError(t *testing.T) {
	log := &recordingLogger{}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/courses/x", nil)

	WriteError(rr, req, log, apperr.New(apperr.ErrNotFound, "Course not found"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "Course not found", decodeMessage(t, rr))
	assert.Empty(t, log.errors)
}

func TestWriteError_InternalIsLoggedAndHidden(t *testing.T) {
	log := &recordingLogger{}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)

	WriteError(rr, req, log, errors.New("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal Server Error", decodeMessage(t, rr))
	assert.Equal(t, []string{"request failed"}, log.errors)
}

func TestWriteError_NilLogger(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, httptest.NewRequest(http.MethodGet, "/", nil), nil, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
	require.NoError(t, DecodeJSON(rr, req, &dst))
	assert.Equal(t, "a@b.co", dst.Email)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	err := DecodeJSON(rr, req, &dst)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	big := bytes.Repeat([]byte("a"), MaxBodyBytes+10)
	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(append(append([]byte(`{"email":"`), big...), '"', '}')))
	err = DecodeJSON(httptest.NewRecorder(), req, &dst)
	assert.ErrorContains(t, err, "too large")
}
