package courses

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/elearning-api/internal/access"
	"github.com/learnhub/elearning-api/internal/apperr"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/notify"
	"github.com/learnhub/elearning-api/internal/testutil"
	"github.com/learnhub/elearning-api/internal/users"
)

type fakeOutbox struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (o *fakeOutbox) Enqueue(msg notify.Message) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, msg)
	return true
}

type fakeStore struct {
	keys []string
	body string
	err  error
}

func (s *fakeStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	b, _ := io.ReadAll(body)
	s.body = string(b)
	s.keys = append(s.keys, key)
	return "http://media.test/bucket/" + key, nil
}

type fixture struct {
	svc        *Service
	repo       *GormRepository
	userRepo   *users.GormRepository
	outbox     *fakeOutbox
	store      *fakeStore
	instructor access.Identity
	other      access.Identity
	student    access.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewSQLite(t, users.Migrate, Migrate)
	f := &fixture{
		repo:     NewGormRepository(gdb),
		userRepo: users.NewGormRepository(gdb),
		outbox:   &fakeOutbox{},
		store:    &fakeStore{},
	}
	f.svc = NewService(f.repo, f.userRepo, f.store, f.outbox, logging.Discard())

	mk := func(name string, role access.Role) access.Identity {
		u := &users.User{ID: uuid.NewString(), Name: name, Email: strings.ToLower(name) + "@x.com", Role: role, PasswordHash: "h"}
		require.NoError(t, f.userRepo.Create(context.Background(), u))
		return u.Identity()
	}
	f.instructor = mk("Grace", access.RoleInstructor)
	f.other = mk("Edsger", access.RoleInstructor)
	f.student = mk("Alice", access.RoleStudent)
	return f
}

func price(p float64) *float64 { return &p }

func (f *fixture) course(t *testing.T) *Course {
	t.Helper()
	c, err := f.svc.Create(context.Background(), f.instructor, CreateCourseRequest{
		Title: "Intro to Go", Description: "Basics", Duration: "6 weeks", Price: price(49.5),
	})
	require.NoError(t, err)
	return c
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	c := f.course(t)

	assert.Equal(t, f.instructor.UserID, c.InstructorID)

	got, err := f.svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Go", got.Title)
	assert.Equal(t, 49.5, got.Price)
	assert.NotNil(t, got.Students)
	assert.Empty(t, got.Students)

	list, err := f.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCreate_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.student, CreateCourseRequest{Title: "x", Duration: "1h", Price: price(0)})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Create(ctx, f.instructor, CreateCourseRequest{Title: "x", Duration: "1h"})
	assert.ErrorIs(t, err, apperr.ErrValidation, "price is required")

	_, err = f.svc.Create(ctx, f.instructor, CreateCourseRequest{Title: "x", Duration: "1h", Price: price(-1)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Create(ctx, f.instructor, CreateCourseRequest{Duration: "1h", Price: price(1)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	free, err := f.svc.Create(ctx, f.instructor, CreateCourseRequest{Title: "Free", Duration: "1h", Price: price(0)})
	require.NoError(t, err)
	assert.Zero(t, free.Price)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.course(t)

	title := "Advanced Go"
	_, err := f.svc.Update(ctx, f.other, c.ID, UpdateCourseRequest{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrForbidden, "another instructor is not the owner")

	_, err = f.svc.Update(ctx, f.student, c.ID, UpdateCourseRequest{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := f.svc.Update(ctx, f.instructor, c.ID, UpdateCourseRequest{Title: &title, Price: price(0)})
	require.NoError(t, err)
	assert.Equal(t, "Advanced Go", updated.Title)
	assert.Equal(t, "6 weeks", updated.Duration, "unsent fields are kept")
	assert.Zero(t, updated.Price)

	empty := ""
	_, err = f.svc.Update(ctx, f.instructor, c.ID, UpdateCourseRequest{Title: &empty})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Update(ctx, f.instructor, "missing", UpdateCourseRequest{Title: &title})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestDelete_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.course(t)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.other, c.ID), apperr.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, f.instructor, c.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, f.instructor, c.ID), ErrCourseNotFound)
}

func TestEnroll_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.course(t)

	enrolled, err := f.svc.Enroll(ctx, f.student, c.ID)
	require.NoError(t, err)
	assert.Equal(t, StringList{f.student.UserID}, enrolled.Students)

	_, err = f.svc.Enroll(ctx, f.student, c.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err := f.svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, StringList{f.student.UserID}, got.Students)

	require.Len(t, f.outbox.msgs, 1)
	assert.Equal(t, "alice@x.com", f.outbox.msgs[0].To)
	assert.Contains(t, f.outbox.msgs[0].HTML, "Intro to Go")
}

func TestEnroll_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.course(t)

	_, err := f.svc.Enroll(ctx, f.instructor, c.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden, "instructors cannot enroll")

	_, err = f.svc.Enroll(ctx, f.student, "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestEnroll_ConcurrentSameStudent(t *testing.T) {
	f := newFixture(t)
	c := f.course(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Enroll(context.Background(), f.student, c.ID)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyEnrolled)
		}
	}
	assert.Equal(t, 1, ok)

	got, err := f.svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Len(t, got.Students, 1)
}

func TestAttachMedia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.course(t)

	up, err := f.svc.AttachMedia(ctx, f.instructor, c.ID, "lesson1.MP4", "video/mp4", strings.NewReader("bytes"), 5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.Key, "courses/"+c.ID+"/"))
	assert.True(t, strings.HasSuffix(up.Key, ".mp4"))
	assert.Equal(t, "bytes", f.store.body)

	got, err := f.svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, StringList{up.URL}, got.Media)

	_, err = f.svc.AttachMedia(ctx, f.other, c.ID, "x.png", "", strings.NewReader(""), 0)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	f.store.err = errors.New("bucket gone")
	_, err = f.svc.AttachMedia(ctx, f.instructor, c.ID, "x.png", "", strings.NewReader(""), 0)
	assert.ErrorContains(t, err, "bucket gone")
}

func TestAttachMedia_NoStore(t *testing.T) {
	f := newFixture(t)
	f.svc.media = nil
	c := f.course(t)

	_, err := f.svc.AttachMedia(context.Background(), f.instructor, c.ID, "x.png", "", strings.NewReader(""), 0)
	assert.ErrorIs(t, err, ErrMediaUnavailable)
}
