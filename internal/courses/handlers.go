package courses

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnhub/elearning-api/internal/apperr"
	"github.com/learnhub/elearning-api/internal/httputil"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/middleware"
	"github.com/learnhub/elearning-api/internal/utils"
)

// MaxUploadBytes caps a single media file.
const MaxUploadBytes = 50 << 20

var (
	errMissingFile  = apperr.New(apperr.ErrValidation, "file: cannot be blank.")
	errFileTooLarge = apperr.New(apperr.ErrValidation, "file: must be at most 50 MiB.")
)

type Handlers struct {
	svc    *Service
	logger logging.Logger
}

func NewHandlers(svc *Service, logger logging.Logger) *Handlers {
	return &Handlers{svc: svc, logger: logger}
}

func (h *Handlers) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	if list == nil {
		list = []Course{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handlers) CreateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, h.logger, middleware.ErrMissingToken)
		return
	}

	var req CreateCourseRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	c, err := h.svc.Create(r.Context(), id, req)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handlers) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, h.logger, middleware.ErrMissingToken)
		return
	}

	var req UpdateCourseRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	c, err := h.svc.Update(r.Context(), id, chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handlers) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, h.logger, middleware.ErrMissingToken)
		return
	}

	if err := h.svc.Delete(r.Context(), id, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Course deleted")
}

func (h *Handlers) EnrollHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, h.logger, middleware.ErrMissingToken)
		return
	}

	c, err := h.svc.Enroll(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, struct {
		Message string  `json:"message"`
		Course  *Course `json:"course"`
	}{"Enrolled successfully", c})
}

func (h *Handlers) UploadMediaHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, h.logger, middleware.ErrMissingToken)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, r, h.logger, errFileTooLarge)
			return
		}
		httputil.WriteError(w, r, h.logger, httputil.ErrBadBody)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, r, h.logger, errMissingFile)
		return
	}
	defer file.Close()
	if header.Size > MaxUploadBytes {
		httputil.WriteError(w, r, h.logger, errFileTooLarge)
		return
	}

	upload, err := h.svc.AttachMedia(r.Context(), id, chi.URLParam(r, "id"),
		header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, upload)
}
