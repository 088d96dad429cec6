package handler

import (
	"time"

	"github.com/google/uuid"
)

// =====================
// Auth Request DTOs
// =====================

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// RefreshTokenRequest represents the request body for token refresh.
// The token may also arrive via the httpOnly refresh cookie, so the
// body field is optional and cookie-only clients can post `{}`.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"omitempty"`
}

// LogoutRequest represents the request body for logout
type LogoutRequest struct {
	Everywhere bool `json:"everywhere"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenResponse represents the token pair returned to the client
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type" example:"Bearer"`
}

// AuthUserResponse represents the authenticated user
type AuthUserResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Email       string    `json:"email" example:"tech@example.com"`
	Name        string    `json:"name" example:"Alex Rivera"`
	Role        string    `json:"role" example:"technician"`
	Status      string    `json:"status" example:"active"`
	Permissions []string  `json:"permissions"`
}

// LoginResponse represents the response body for a successful login
type LoginResponse struct {
	Token TokenResponse    `json:"token"`
	User  AuthUserResponse `json:"user"`
}

// RefreshTokenResponse represents the response body for a token refresh
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// LogoutResponse represents the response body for logout
type LogoutResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// CurrentUserResponse represents the response body for the current user
type CurrentUserResponse struct {
	User        AuthUserResponse `json:"user"`
	Permissions []string         `json:"permissions"`
}

// CSRFTokenResponse carries a freshly issued CSRF token. The same value
// is set as a cookie; cookie-authenticated clients echo it back in the
// X-CSRF-Token header on mutating requests.
type CSRFTokenResponse struct {
	Token string `json:"csrf_token"`
}

// PermissionMatrixResponse maps each role to its compiled permission codes
type PermissionMatrixResponse struct {
	Roles map[string][]string `json:"roles"`
}
