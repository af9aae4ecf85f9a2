package auth

import (
	"github.com/google/uuid"

	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// LoginRequest carries the credential pair.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the token pair plus the resolved identity.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserSummary `json:"user"`
}

// RefreshRequest rotates a session: the access token may be expired, the
// refresh token must match the stored session.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the replacement token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revokes the session tied to the access token.
type LogoutRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// UserSummary is the identity block returned on login.
type UserSummary struct {
	ID       uuid.UUID        `json:"id"`
	Username string           `json:"username"`
	Kind     enums.UserKind   `json:"kind"`
	StaffID  *uuid.UUID       `json:"staff_id,omitempty"`
	FullName string           `json:"full_name,omitempty"`
	Role     *enums.StaffRole `json:"role,omitempty"`
}
