// Package store defines the storage ports the rest of the application is
// written against. Concrete backends live in the subpackages: postgres for
// the server deployment, localstore for the single-file local variant, and
// memory for tests.
package store

import (
	"context"
	"errors"

	"github.com/jotter/jotter/internal/model"
)

// Common errors shared by all store implementations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// CredentialStore maps emails to registered user records.
// Records are created on register and read on login; they are never updated
// or deleted in-app.
type CredentialStore interface {
	// CreateUser inserts a new user. Fails with ErrDuplicateEmail if the
	// email is already registered, leaving the store unchanged.
	CreateUser(ctx context.Context, user *model.User) error

	// GetUserByEmail returns the user for the email or ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetUserByID returns the user for the id or ErrUserNotFound.
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// NoteStore maps a user to their ordered notes. Insertion order is display
// order.
type NoteStore interface {
	// ListNotes returns the user's notes oldest-first. A never-seen user
	// gets an empty (not nil-erroring) sequence; backends that materialize
	// per-user partitions persist the empty initialization. Idempotent.
	ListNotes(ctx context.Context, userID string) ([]*model.Note, error)

	// AddNote appends the note to the end of its owner's sequence.
	AddNote(ctx context.Context, note *model.Note) error

	// DeleteNote removes the note with the given id from the user's
	// sequence. Deleting an absent id is a success no-op; the relative
	// order of the remaining notes is preserved.
	DeleteNote(ctx context.Context, userID, noteID string) error
}

// Store is the full storage port wired into the application.
type Store interface {
	CredentialStore
	NoteStore

	// Ping checks backend connectivity for readiness probes.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
