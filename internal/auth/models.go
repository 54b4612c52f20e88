package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/learnhub/elearning-api/internal/access"
	"github.com/learnhub/elearning-api/internal/apperr"
	"github.com/learnhub/elearning-api/internal/users"
)

var passwordRules = []validation.Rule{validation.Required, validation.Length(8, 15)}

type SignupRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     access.Role `json:"role"`
}

func (r SignupRequest) Validate() error {
	return apperr.Validation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(5, 0)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, passwordRules...),
		validation.Field(&r.Role, validation.Required, validation.In(access.RoleInstructor, access.RoleStudent)),
	))
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return apperr.Validation(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	))
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return apperr.Validation(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	))
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (r ResetPasswordRequest) Validate() error {
	return apperr.Validation(validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, passwordRules...),
	))
}

type SignupResponse struct {
	Message string      `json:"message"`
	User    *users.User `json:"user"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
