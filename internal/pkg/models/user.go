package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a registered traveler
type User struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Email        string          `json:"email" db:"email"`
	PasswordHash string          `json:"-" db:"password_hash"`
	FullName     string          `json:"full_name" db:"full_name"`
	Phone        string          `json:"phone,omitempty" db:"phone"`
	Preferences  json.RawMessage `json:"preferences,omitempty" db:"preferences"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest is the payload for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful register/login
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// ChangePasswordRequest is the payload for a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateProfileRequest is the payload for a profile update
type UpdateProfileRequest struct {
	FullName    string          `json:"full_name,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
}
