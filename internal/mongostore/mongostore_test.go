package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/learnhub/elearning-api/internal/access"
	"github.com/learnhub/elearning-api/internal/courses"
	"github.com/learnhub/elearning-api/internal/users"
)

// newDatabase returns a throwaway database on the server at MONGODB_URI.
func newDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("skipping mongo test (requires MONGODB_URI)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := Connect(ctx, uri)
	require.NoError(t, err)

	db := client.Database("elearning_test_" + uuid.NewString()[:8])
	require.NoError(t, EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestUserRepository(t *testing.T) {
	db := newDatabase(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &users.User{ID: uuid.NewString(), Name: "Alice Smith", Email: "Alice@X.com", Role: access.RoleStudent, PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))

	dup := &users.User{ID: uuid.NewString(), Name: "Alice Again", Email: "alice@x.com", Role: access.RoleStudent, PasswordHash: "h"}
	assert.ErrorIs(t, repo.Create(ctx, dup), users.ErrUserExists)

	got, err := repo.FindByEmail(ctx, "ALICE@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, users.ErrUserNotFound)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetResetToken(ctx, u.ID, "tok", now.Add(30*time.Minute)))

	_, err = repo.FindByResetToken(ctx, "tok", now)
	require.NoError(t, err)
	_, err = repo.FindByResetToken(ctx, "tok", now.Add(30*time.Minute))
	assert.ErrorIs(t, err, users.ErrUserNotFound)

	// BSON dates keep milliseconds; a sub-millisecond expiry must not come due early.
	subMs := now.Add(30*time.Minute + 600500*time.Microsecond)
	require.NoError(t, repo.SetResetToken(ctx, u.ID, "tok-ms", subMs))
	_, err = repo.FindByResetToken(ctx, "tok-ms", subMs.Add(-time.Nanosecond))
	require.NoError(t, err)
	_, err = repo.FindByResetToken(ctx, "tok-ms", subMs.Add(time.Millisecond))
	assert.ErrorIs(t, err, users.ErrUserNotFound)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "h2"))
	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)
	assert.Nil(t, got.ResetToken)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCourseRepository(t *testing.T) {
	db := newDatabase(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	c := &courses.Course{ID: uuid.NewString(), Title: "Intro to Go", InstructorID: "i1", Duration: "6 weeks", Price: 10}
	require.NoError(t, repo.Create(ctx, c))

	enrolled, err := repo.AddStudent(ctx, c.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, courses.StringList{"s1"}, enrolled.Students)

	_, err = repo.AddStudent(ctx, c.ID, "s1")
	assert.ErrorIs(t, err, courses.ErrAlreadyEnrolled)
	_, err = repo.AddStudent(ctx, "missing", "s1")
	assert.ErrorIs(t, err, courses.ErrCourseNotFound)

	c.Title = "Advanced Go"
	require.NoError(t, repo.Update(ctx, c))
	require.NoError(t, repo.AddMedia(ctx, c.ID, "http://media/x.mp4"))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Advanced Go", got.Title)
	assert.Equal(t, courses.StringList{"http://media/x.mp4"}, got.Media)

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), courses.ErrCourseNotFound)
}
