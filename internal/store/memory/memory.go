// Package memory implements the storage ports on in-process maps.
// Used by tests and as a throwaway dev backend; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/jotter/jotter/internal/model"
	"github.com/jotter/jotter/internal/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu    sync.RWMutex
	users []*model.User
	notes map[string][]*model.Note
}

// New creates an empty Store.
func New() *Store {
	return &Store{notes: make(map[string][]*model.Note)}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// CreateUser registers a user if the email is unused.
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	cp := *user
	s.users = append(s.users, &cp)
	return nil
}

// GetUserByEmail returns the user registered under the email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetUserByID returns the user with the given id.
func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// ListNotes returns the user's notes in insertion order, initializing an
// empty sequence for a never-seen user.
func (s *Store) ListNotes(_ context.Context, userID string) ([]*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.notes[userID]
	if !ok {
		s.notes[userID] = []*model.Note{}
		seq = s.notes[userID]
	}

	out := make([]*model.Note, len(seq))
	for i, n := range seq {
		cp := *n
		out[i] = &cp
	}
	return out, nil
}

// AddNote appends the note to its owner's sequence.
func (s *Store) AddNote(_ context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *note
	s.notes[note.UserID] = append(s.notes[note.UserID], &cp)
	return nil
}

// DeleteNote removes the note with the given id; absent ids are a no-op.
func (s *Store) DeleteNote(_ context.Context, userID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.notes[userID]
	for i, n := range seq {
		if n.ID == noteID {
			s.notes[userID] = append(append([]*model.Note{}, seq[:i]...), seq[i+1:]...)
			return nil
		}
	}
	return nil
}
