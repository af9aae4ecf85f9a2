package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/sewtrack-backend/pkg/config"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "sewtrack-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	staffID := uuid.New()
	role := enums.StaffRoleMarker
	payload := AccessTokenPayload{
		UserID:  uuid.New(),
		StaffID: &staffID,
		Role:    &role,
		Kind:    enums.UserKindStaff,
	}

	tokenString, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, tokenString)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Errorf("user id = %s, want %s", claims.UserID, payload.UserID)
	}
	if claims.StaffID == nil || *claims.StaffID != staffID {
		t.Errorf("staff id = %v, want %s", claims.StaffID, staffID)
	}
	if claims.Role == nil || *claims.Role != enums.StaffRoleMarker {
		t.Errorf("role = %v, want %s", claims.Role, enums.StaffRoleMarker)
	}
	if claims.Kind != enums.UserKindStaff {
		t.Errorf("kind = %s, want %s", claims.Kind, enums.UserKindStaff)
	}
	if claims.ID == "" {
		t.Error("expected a generated jti")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	now := time.Now()
	payload := AccessTokenPayload{UserID: uuid.New(), Kind: enums.UserKindClient}

	t.Run("missing secret", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Secret = ""
		if _, err := MintAccessToken(cfg, now, payload); err == nil {
			t.Fatal("expected error for missing secret")
		}
	})

	t.Run("invalid kind", func(t *testing.T) {
		bad := payload
		bad.Kind = enums.UserKind("ghost")
		if _, err := MintAccessToken(testJWTConfig(), now, bad); err == nil {
			t.Fatal("expected error for invalid kind")
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		bad := payload
		r := enums.StaffRole("janitor")
		bad.Role = &r
		if _, err := MintAccessToken(testJWTConfig(), now, bad); err == nil {
			t.Fatal("expected error for invalid role")
		}
	})
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{UserID: uuid.New(), Kind: enums.UserKindClient}

	tokenString, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), payload)
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(cfg, tokenString); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, tokenString)
	if err != nil {
		t.Fatalf("ParseAccessTokenAllowExpired: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Errorf("user id = %s, want %s", claims.UserID, payload.UserID)
	}
}

func TestParseAccessTokenWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{UserID: uuid.New(), Kind: enums.UserKindClient}

	tokenString, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, tokenString); err == nil {
		t.Fatal("expected issuer mismatch to be rejected")
	}
}
