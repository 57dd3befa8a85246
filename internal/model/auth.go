package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims is the authenticated principal attached to every request:
// the staff member, the clinic they belong to, and their role.
type TokenClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	ClinicID  uuid.UUID `json:"clinic_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"-"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
