package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  uuid.UUID
	StaffID *uuid.UUID
	Role    *enums.StaffRole
	Kind    enums.UserKind
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients. StaffID and
// Role are present only for staff accounts.
type AccessTokenClaims struct {
	UserID  uuid.UUID        `json:"user_id"`
	StaffID *uuid.UUID       `json:"staff_id,omitempty"`
	Role    *enums.StaffRole `json:"role,omitempty"`
	Kind    enums.UserKind   `json:"kind"`
	jwt.RegisteredClaims
}
