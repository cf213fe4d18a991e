// Package session tracks which user is currently authenticated.
// A holder moves between exactly two states per token: Anonymous and
// Authenticated(user). Login is the only way in, Logout the only way out;
// there is no expiry or refresh.
package session

import (
	"context"
	"errors"

	"github.com/jotter/jotter/internal/model"
)

// ErrNoSession indicates the token does not identify an authenticated session.
var ErrNoSession = errors.New("no active session")

// Holder manages authenticated sessions keyed by opaque token.
type Holder interface {
	// Login records a session for the user and returns its token.
	// The session holds a value copy of the user taken now.
	Login(ctx context.Context, user *model.User) (string, error)

	// Logout clears the session for the token. Unknown tokens are a no-op.
	Logout(ctx context.Context, token string) error

	// Current returns the session for the token, or ErrNoSession if the
	// token is unknown, malformed, or already logged out.
	Current(ctx context.Context, token string) (*model.Session, error)
}
