package dto

import (
	"time"

	"github.com/noah-isme/campus-activities-api/internal/models"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student employee"`
}

// LoginRequest authenticates a user for a given role.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// LoginResponse carries the issued token and the public user projection.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      models.UserInfo `json:"user"`
}
