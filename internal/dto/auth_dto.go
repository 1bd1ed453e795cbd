package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/komiteplus/committee-backend/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type CompleteProfileRequest struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Organization *string `json:"organization,omitempty"`
	Position     *string `json:"position,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

type InviteUserRequest struct {
	Email        string `json:"email"`
	Role         string `json:"role"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	TempPassword string `json:"temp_password"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID                  uuid.UUID `json:"id"`
	Email               string    `json:"email"`
	NeedsPasswordChange bool      `json:"needs_password_change"`
}

type MeResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Email               string          `json:"email"`
	Profile             *models.Profile `json:"profile"`
	ProfileComplete     bool            `json:"profile_complete"`
	SuperAdmin          bool            `json:"super_admin"`
	Admin               bool            `json:"admin"`
	Special             bool            `json:"special"`
	NeedsPasswordChange bool            `json:"needs_password_change"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
