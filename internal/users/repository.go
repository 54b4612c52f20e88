package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/learnhub/elearning-api/internal/apperr"
)

var (
	ErrUserNotFound = apperr.New(apperr.ErrNotFound, "User not found")
	ErrUserExists   = apperr.New(apperr.ErrConflict, "User already exists")
)

// Repository is the credential store. Implementations must enforce email
// uniqueness atomically and return ErrUserExists on a duplicate.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByResetToken matches only tokens whose expiry is after now.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error)
	List(ctx context.Context) ([]User, error)
	SetResetToken(ctx context.Context, id, token string, expiry time.Time) error
	// UpdatePassword stores the new hash and clears any pending reset.
	UpdatePassword(ctx context.Context, id, hash string) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}

func (r *GormRepository) Create(ctx context.Context, u *User) error {
	u.Email = NormalizeEmail(u.Email)
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "email = ?", NormalizeEmail(email))
}

func (r *GormRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error) {
	return r.first(ctx, "reset_token = ? AND reset_token_expiry > ?", token, now.UTC())
}

func (r *GormRepository) first(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *GormRepository) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *GormRepository) SetResetToken(ctx context.Context, id, token string, expiry time.Time) error {
	expiry = expiry.UTC()
	if r.db.Dialector.Name() == "postgres" {
		// timestamptz keeps microseconds.
		expiry = CeilTime(expiry, time.Microsecond)
	}
	return r.update(ctx, id, map[string]any{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	})
}

func (r *GormRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.update(ctx, id, map[string]any{
		"password_hash":      hash,
		"reset_token":        nil,
		"reset_token_expiry": nil,
	})
}

func (r *GormRepository) update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
