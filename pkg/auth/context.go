package auth

import (
	"context"

	"phonebook-backend/domain/entities"
)

// contextKey is an unexported type for context keys defined by this package
type contextKey string

const currentUserKey contextKey = "current_user"

// WithCurrentUser returns a context carrying the authenticated account
func WithCurrentUser(ctx context.Context, user *entities.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// CurrentUser extracts the authenticated account from the context. The second
// return is false for an empty session.
func CurrentUser(ctx context.Context) (*entities.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*entities.User)
	return user, ok && user != nil
}
