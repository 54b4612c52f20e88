package courses

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/learnhub/elearning-api/internal/access"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/media"
	"github.com/learnhub/elearning-api/internal/notify"
	"github.com/learnhub/elearning-api/internal/users"
)

type Service struct {
	courses  Repository
	users    users.Repository
	media    media.Store
	notifier notify.Enqueuer
	logger   logging.Logger
}

// NewService builds the course service. store may be nil, in which case
// media uploads fail with ErrMediaUnavailable.
func NewService(courses Repository, userRepo users.Repository, store media.Store, notifier notify.Enqueuer, logger logging.Logger) *Service {
	return &Service{
		courses:  courses,
		users:    userRepo,
		media:    store,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) List(ctx context.Context) ([]Course, error) {
	return s.courses.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Course, error) {
	return s.courses.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, id access.Identity, req CreateCourseRequest) (*Course, error) {
	if err := access.RequireRole(id, access.RoleInstructor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &Course{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: id.UserID,
		Duration:     req.Duration,
		Price:        *req.Price,
	}
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "course created", "course_id", c.ID, "instructor_id", id.UserID)
	return c, nil
}

// owned loads a course and checks that id is its instructor.
func (s *Service) owned(ctx context.Context, id access.Identity, courseID string) (*Course, error) {
	if err := access.RequireRole(id, access.RoleInstructor); err != nil {
		return nil, err
	}
	c, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(id, c.InstructorID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id access.Identity, courseID string, req UpdateCourseRequest) (*Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := s.owned(ctx, id, courseID)
	if err != nil {
		return nil, err
	}
	req.apply(c)
	if err := s.courses.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.courses.FindByID(ctx, courseID)
}

func (s *Service) Delete(ctx context.Context, id access.Identity, courseID string) error {
	if _, err := s.owned(ctx, id, courseID); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, courseID); err != nil {
		return err
	}
	s.logger.Info(ctx, "course deleted", "course_id", courseID, "instructor_id", id.UserID)
	return nil
}

// Enroll adds the student to the course. A confirmation email is queued;
// failing to look the student up only skips the email.
func (s *Service) Enroll(ctx context.Context, id access.Identity, courseID string) (*Course, error) {
	if err := access.RequireRole(id, access.RoleStudent); err != nil {
		return nil, err
	}
	c, err := s.courses.AddStudent(ctx, courseID, id.UserID)
	if err != nil {
		return nil, err
	}

	if u, err := s.users.FindByID(ctx, id.UserID); err != nil {
		s.logger.Warn(ctx, "enrollment email skipped", "user_id", id.UserID, "error", err)
	} else {
		s.notifier.Enqueue(notify.EnrollmentMessage(u.Email, u.Name, c.Title))
	}
	return c, nil
}

func (s *Service) AttachMedia(ctx context.Context, id access.Identity, courseID, filename, contentType string, body io.Reader, size int64) (*MediaUpload, error) {
	if _, err := s.owned(ctx, id, courseID); err != nil {
		return nil, err
	}
	if s.media == nil {
		return nil, ErrMediaUnavailable
	}

	key := media.CourseKey(courseID, filename)
	url, err := s.media.Put(ctx, key, body, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	if err := s.courses.AddMedia(ctx, courseID, url); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "media attached", "course_id", courseID, "key", key, "bytes", size)
	return &MediaUpload{Key: key, URL: url}, nil
}
