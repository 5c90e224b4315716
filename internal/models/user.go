package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes grant-program administrators from applicants
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// Valid reports whether the role is one the API accepts
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account that owns business profiles and submits feedback
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Sanitized returns a copy safe to include in API responses
func (u *User) Sanitized() User {
	copied := *u
	copied.PasswordHash = ""
	return copied
}

// LoginRequest carries credentials for token issuance
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreateUserRequest carries registration input. Role defaults to the
// applicant role when omitted.
type CreateUserRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role"`
}

// LoginResponse is the payload returned on successful authentication
type LoginResponse struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}
