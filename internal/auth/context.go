package auth

import (
	"context"

	"github.com/jotter/jotter/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// sessionContextKey is the context key for storing the current session.
const sessionContextKey contextKey = "session"

// ContextWithSession adds the session to the context.
func ContextWithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFromContext retrieves the session from the context.
// Returns nil if the request is unauthenticated.
func SessionFromContext(ctx context.Context) *model.Session {
	s, ok := ctx.Value(sessionContextKey).(*model.Session)
	if !ok {
		return nil
	}
	return s
}
