package dto

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse carries an issued token and its identity.
type SessionResponse struct {
	Token       string      `json:"token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
}
