package auth

import (
	"context"
	"errors"
)

type contextKey string

const userContextKey contextKey = "vault.user"

// UserContext is the authenticated caller attached to a request context
type UserContext struct {
	UserID string
	Name   string
}

// WithUser attaches the caller to the context
func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the caller set by the auth middleware
func GetUserFromContext(ctx context.Context) (UserContext, error) {
	user, ok := ctx.Value(userContextKey).(UserContext)
	if !ok || user.UserID == "" {
		return UserContext{}, errors.New("no authenticated user in context")
	}
	return user, nil
}
