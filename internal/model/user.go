package model

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// MaxPasswordLength is the longest password bcrypt can hash without truncation.
const MaxPasswordLength = 72

// User represents a registered account in the database.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
}

// Identity is the authenticated caller attached to a request by the token guard.
type Identity struct {
	UserID string
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration fields. minPasswordLength comes from configuration.
func (r RegisterRequest) Validate(minPasswordLength int) error {
	passwordMsg := fmt.Sprintf("Please enter a password with %d or more characters.", minPasswordLength)

	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required")),
		validation.Field(&r.Email,
			validation.Required.Error("Please include a valid email"),
			is.Email.Error("Please include a valid email"),
		),
		validation.Field(&r.Password,
			validation.Required.Error(passwordMsg),
			validation.RuneLength(minPasswordLength, 0).Error(passwordMsg),
			validation.Length(0, MaxPasswordLength).Error(
				fmt.Sprintf("Password must be at most %d characters.", MaxPasswordLength)),
		),
	)
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Please include a valid email"),
			is.Email.Error("Please include a valid email"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password is required"),
			validation.Length(0, MaxPasswordLength).Error(
				fmt.Sprintf("Password must be at most %d characters.", MaxPasswordLength)),
		),
	)
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse represents user data safe for API responses (no password hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// NewUserResponse strips the private fields of u.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}
