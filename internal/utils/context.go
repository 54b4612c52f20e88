package utils

import (
	"context"

	"github.com/learnhub/elearning-api/internal/access"
)

type contextKey string

const ContextIdentityKey contextKey = "identity"

func WithIdentity(ctx context.Context, id access.Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

func GetIdentityFromContext(ctx context.Context) (access.Identity, bool) {
	id, ok := ctx.Value(ContextIdentityKey).(access.Identity)
	return id, ok
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := GetIdentityFromContext(ctx)
	if !ok || id.UserID == "" {
		return "", false
	}
	return id.UserID, true
}
