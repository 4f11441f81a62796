package user

import (
	"net/mail"
	"strings"

	"github.com/fkhayef/splitledger/internal/apperr"
)

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Normalize trims the fields and lower-cases the email.
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate reports the first invalid field.
func (r *CreateUserRequest) Validate() error {
	if r.Name == "" {
		return apperr.Invalid("name", "is required")
	}
	if len(r.Name) > 100 {
		return apperr.Invalid("name", "must be at most 100 characters")
	}
	if r.Email == "" {
		return apperr.Invalid("email", "is required")
	}
	if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		return apperr.Invalid("email", "is not a valid address")
	}
	return nil
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
