package users

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/learnhub/elearning-api/internal/access"
)

// User is a stored account. The password hash and reset fields never leave
// the service in JSON.
type User struct {
	ID               string      `gorm:"primaryKey;type:text" bson:"_id" json:"id"`
	Name             string      `gorm:"not null" bson:"name" json:"name"`
	Email            string      `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	Role             access.Role `gorm:"type:text;not null" bson:"role" json:"role"`
	PasswordHash     string      `gorm:"not null" bson:"password" json:"-"`
	ResetToken       *string     `gorm:"index" bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpiry *time.Time  `bson:"resetTokenExpiry,omitempty" json:"-"`
	CreatedAt        time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time   `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) Identity() access.Identity {
	return access.Identity{UserID: u.ID, Role: u.Role}
}

var emailFolder = cases.Fold()

// NormalizeEmail trims and case-folds an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}

// CeilTime rounds t up to a multiple of d. Stores with coarser timestamps
// than time.Time round expiries up so a deadline never moves earlier.
func CeilTime(t time.Time, d time.Duration) time.Time {
	r := t.Truncate(d)
	if r.Before(t) {
		r = r.Add(d)
	}
	return r
}
