package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID  contextKey = "user_id"
	ctxStaffID contextKey = "staff_id"
	ctxRole    contextKey = "actor_role"
	ctxKind    contextKey = "user_kind"
)

func UserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// StaffIDFromContext returns the staff profile id, or uuid.Nil for
// client accounts.
func StaffIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxStaffID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func RoleFromContext(ctx context.Context) enums.StaffRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.StaffRole); ok {
		return v
	}
	return ""
}

func KindFromContext(ctx context.Context) enums.UserKind {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKind).(enums.UserKind); ok {
		return v
	}
	return ""
}

// WithActor seeds the context the way the auth middleware does. Intended
// for tests and internal wiring.
func WithActor(ctx context.Context, userID, staffID uuid.UUID, role enums.StaffRole, kind enums.UserKind) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxStaffID, staffID)
	ctx = context.WithValue(ctx, ctxRole, role)
	return context.WithValue(ctx, ctxKind, kind)
}
