package http

import (
	"context"

	"rental-backoffice/internal/domain"
)

type userKey struct{}

// WithUser stores the authenticated user in ctx
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the user set by the auth middleware
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*domain.User)
	return user, ok && user != nil
}
