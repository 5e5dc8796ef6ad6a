package user

import (
	"errors"
	"strings"
	"time"

	"github.com/gauravsharma29/Dev-Camper-API/internal/validation"
)

const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"` // only populated by credential lookups
	CreatedAt    time.Time `json:"createdAt"`

	ResetPasswordToken  *string    `json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateDetailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// CreateRequest is the admin variant of registration; any role is allowed.
type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateRequest is a partial admin update; nil fields are left unchanged.
type UpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

type ListFilter struct {
	Role   *string
	Sort   []string
	Limit  int
	Offset int
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the persisted fields of u. The password is checked separately
// since only its hash is stored.
func (u User) Validate() error {
	var errs validation.Errors

	errs.Required("name", u.Name, "Please add a name")
	errs.Required("email", u.Email, "Please add an email")
	errs.Check("email", u.Email, "email", "Please add a valid email")
	errs.Check("role", u.Role, "oneof=user publisher admin", "Please choose a valid role")

	return errs.Err()
}

// ValidatePassword mirrors the credential rule applied on every password write.
func ValidatePassword(errs *validation.Errors, field, password string) {
	errs.Required(field, password, "Please add a password")
	switch {
	case errs.Has(field):
	case len(password) < 6:
		errs.Add(field, "Password must be at least 6 characters")
	case len(password) > 72:
		errs.Add(field, "Password cannot be more than 72 bytes")
	}
}

// ValidateWithPassword checks a new account, including its plain password.
func (u User) ValidateWithPassword(password string) error {
	var errs validation.Errors

	if err := u.Validate(); err != nil {
		var ve *validation.Errors
		if errors.As(err, &ve) {
			errs = *ve
		}
	}
	ValidatePassword(&errs, "password", password)

	return errs.Err()
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
