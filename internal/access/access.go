// Package access decides whether an authenticated identity may perform an
// action. Roles are flat: an instructor is not implicitly a student.
package access

import "github.com/learnhub/elearning-api/internal/apperr"

type Role string

const (
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Roles lists every role a user can hold.
var Roles = []Role{RoleInstructor, RoleStudent}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID string
	Role   Role
}

var ErrForbidden = apperr.New(apperr.ErrForbidden, "Forbidden")

// RequireRole succeeds only on an exact role match.
func RequireRole(id Identity, role Role) error {
	if id.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireOwner succeeds when the identity owns the resource.
func RequireOwner(id Identity, ownerID string) error {
	if id.UserID == "" || id.UserID != ownerID {
		return ErrForbidden
	}
	return nil
}
