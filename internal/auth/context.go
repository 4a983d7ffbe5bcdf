package auth

import (
	"context"

	"github.com/sriramramnath/EducationOS/internal/store"
)

type contextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (*store.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*store.User)
	return user, ok && user != nil
}
