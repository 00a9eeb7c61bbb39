package dto

import (
	"time"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
)

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest is the body of POST /auth/google-login
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// ChangePasswordRequest is the body of PUT /auth/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// LoginResponse is returned after a password login
type LoginResponse struct {
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expiresAt"`
	User      entity.AccountProfile `json:"user"`
}

// UserResponse wraps an account projection
type UserResponse struct {
	User entity.AccountProfile `json:"user"`
}
