package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/elearning-api/internal/access"
	"github.com/learnhub/elearning-api/internal/apperr"
	"github.com/learnhub/elearning-api/internal/testutil"
)

func newRepo(t *testing.T) *GormRepository {
	t.Helper()
	return NewGormRepository(testutil.NewSQLite(t, Migrate))
}

func newUser(email string) *User {
	return &User{
		ID:           uuid.NewString(),
		Name:         "Alice Liddell",
		Email:        email,
		Role:         access.RoleStudent,
		PasswordHash: "hash",
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.com "))
	assert.Equal(t, "strasse@x.com", NormalizeEmail("STRASSE@x.com"))
}

func TestCeilTime(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
		d    time.Duration
		want time.Time
	}{
		{"on grid", base.Add(5 * time.Millisecond), time.Millisecond, base.Add(5 * time.Millisecond)},
		{"sub-ms", base.Add(5*time.Millisecond + time.Nanosecond), time.Millisecond, base.Add(6 * time.Millisecond)},
		{"sub-us", base.Add(1500 * time.Nanosecond), time.Microsecond, base.Add(2 * time.Microsecond)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CeilTime(tt.in, tt.d))
		})
	}
}

func TestGormRepository_CreateAndFind(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	u := newUser("Alice@X.com")

	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "alice@x.com", u.Email)

	byEmail, err := repo.FindByEmail(ctx, "ALICE@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, access.RoleStudent, byID.Role)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGormRepository_DuplicateEmail(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice@x.com")))
	err := repo.Create(ctx, newUser("ALICE@x.com"))
	assert.ErrorIs(t, err, ErrUserExists)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormRepository_ResetToken(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	u := newUser("bob@x.com")
	require.NoError(t, repo.Create(ctx, u))

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(30 * time.Minute)
	require.NoError(t, repo.SetResetToken(ctx, u.ID, "tok-1", expiry))

	got, err := repo.FindByResetToken(ctx, "tok-1", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.FindByResetToken(ctx, "tok-1", expiry)
	assert.ErrorIs(t, err, ErrUserNotFound, "expiry is exclusive")

	require.NoError(t, repo.SetResetToken(ctx, u.ID, "tok-2", expiry))
	_, err = repo.FindByResetToken(ctx, "tok-1", now)
	assert.ErrorIs(t, err, ErrUserNotFound, "a new token replaces the old one")

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	_, err = repo.FindByResetToken(ctx, "tok-2", now)
	assert.ErrorIs(t, err, ErrUserNotFound)

	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Nil(t, got.ResetToken)
	assert.Nil(t, got.ResetTokenExpiry)
}

func TestGormRepository_UpdateMissingUser(t *testing.T) {
	repo := newRepo(t)
	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), "nope", "h"), ErrUserNotFound)
}
