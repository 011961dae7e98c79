package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/cafcollect/caf-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
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

func RoleFromContext(ctx context.Context) enums.UserRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.UserRole); ok {
		return v
	}
	return ""
}

// WithActor injects the authenticated user id and role into the context.
func WithActor(ctx context.Context, userID uuid.UUID, role enums.UserRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxRole, role)
}
