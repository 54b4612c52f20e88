package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnhub/elearning-api/internal/httputil"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/middleware"
	"github.com/learnhub/elearning-api/internal/users"
	"github.com/learnhub/elearning-api/internal/utils"
)

type Handlers struct {
	authn  *Authenticator
	resets *ResetManager
	users  users.Repository
	logger logging.Logger
}

func NewHandlers(authn *Authenticator, resets *ResetManager, repo users.Repository, logger logging.Logger) *Handlers {
	return &Handlers{authn: authn, resets: resets, users: repo, logger: logger}
}

func (h *Handlers) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	u, err := h.authn.Signup(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, SignupResponse{
		Message: "User created successfully",
		User:    u,
	})
}

func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	token, err := h.authn.Login(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *Handlers) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	// The response does not wait on delivery.
	if _, err := h.resets.Issue(r.Context(), req.Email); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Password reset email sent")
}

func (h *Handlers) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	if err := h.resets.Redeem(r.Context(), chi.URLParam(r, "resetToken"), req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Password has been reset successfully")
}

func (h *Handlers) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	if list == nil {
		list = []users.User{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handlers) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, h.logger, middleware.ErrMissingToken)
		return
	}

	u, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}
