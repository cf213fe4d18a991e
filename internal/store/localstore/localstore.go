// Package localstore implements the storage ports on a single SQLite file.
// It is the local-storage deployment variant: the whole state lives in
// namespaced JSON buckets (a `users` sequence and a `notes` map keyed by
// user id), read into memory at open and written back synchronously after
// every mutation.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/jotter/jotter/internal/model"
	"github.com/jotter/jotter/internal/store"
)

// schemaVersion is the serialization version of the bucket payloads.
// Buckets carrying any other version are rejected at open instead of being
// guessed at.
const schemaVersion = 1

// Bucket names.
const (
	bucketUsers = "users"
	bucketNotes = "notes"
)

// ErrSchemaVersion indicates the on-disk payloads were written by an
// incompatible version.
var ErrSchemaVersion = errors.New("unsupported localstore schema version")

// storedUser is the serialized user shape. The API-facing model excludes
// the password hash from JSON, so the bucket carries its own mapping.
type storedUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func toStoredUsers(users []*model.User) []storedUser {
	out := make([]storedUser, len(users))
	for i, u := range users {
		out[i] = storedUser{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
		}
	}
	return out
}

func fromStoredUsers(stored []storedUser) []*model.User {
	out := make([]*model.User, len(stored))
	for i, u := range stored {
		out[i] = &model.User{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
		}
	}
	return out
}

// Store keeps the full application state in memory and snapshots mutated
// buckets to SQLite after every successful write.
type Store struct {
	db *sql.DB

	mu    sync.RWMutex
	users []*model.User            // insertion order, mirrors the serialized sequence
	notes map[string][]*model.Note // user id -> ordered notes
}

// Open creates or loads a Store at the given file path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "jotter.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket  TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	s := &Store{
		db:    db,
		notes: make(map[string][]*model.Note),
	}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// load reads all buckets into memory, verifying the schema version.
func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, version, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			bucket  string
			version int
			payload []byte
		)
		if err := rows.Scan(&bucket, &version, &payload); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		if version != schemaVersion {
			return fmt.Errorf("%w: bucket %q has version %d, want %d",
				ErrSchemaVersion, bucket, version, schemaVersion)
		}

		switch bucket {
		case bucketUsers:
			var stored []storedUser
			if err := json.Unmarshal(payload, &stored); err != nil {
				return fmt.Errorf("decode users: %w", err)
			}
			s.users = fromStoredUsers(stored)
		case bucketNotes:
			if err := json.Unmarshal(payload, &s.notes); err != nil {
				return fmt.Errorf("decode notes: %w", err)
			}
		default:
			return fmt.Errorf("%w: unknown bucket %q", ErrSchemaVersion, bucket)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if s.notes == nil {
		s.notes = make(map[string][]*model.Note)
	}
	return nil
}

// persist writes one bucket back to SQLite. Callers hold s.mu.
func (s *Store) persist(bucket string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", bucket, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO state (bucket, version, payload) VALUES (?, ?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET version = excluded.version, payload = excluded.payload`,
		bucket, schemaVersion, payload,
	)
	if err != nil {
		return fmt.Errorf("persist %s: %w", bucket, err)
	}
	return nil
}

// Ping checks that the backing file is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the backing database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser appends a user to the sequence if the email is unused.
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
	if err := s.persist(bucketUsers, toStoredUsers(s.users)); err != nil {
		s.users = s.users[:len(s.users)-1]
		return err
	}
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

// ListNotes returns the user's notes in insertion order. A never-seen user
// gets an empty sequence written through to disk, so repeated calls observe
// the same initialized state.
func (s *Store) ListNotes(_ context.Context, userID string) ([]*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.notes[userID]
	if !ok {
		s.notes[userID] = []*model.Note{}
		if err := s.persist(bucketNotes, s.notes); err != nil {
			delete(s.notes, userID)
			return nil, err
		}
		seq = s.notes[userID]
	}

	out := make([]*model.Note, len(seq))
	for i, n := range seq {
		cp := *n
		out[i] = &cp
	}
	return out, nil
}

// AddNote appends the note to the end of its owner's sequence.
func (s *Store) AddNote(_ context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *note
	prev := s.notes[note.UserID]
	s.notes[note.UserID] = append(prev, &cp)
	if err := s.persist(bucketNotes, s.notes); err != nil {
		s.notes[note.UserID] = prev
		return err
	}
	return nil
}

// DeleteNote removes the note with the given id; absent ids are a no-op.
func (s *Store) DeleteNote(_ context.Context, userID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.notes[userID]
	if !ok {
		return nil
	}

	idx := -1
	for i, n := range seq {
		if n.ID == noteID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	updated := make([]*model.Note, 0, len(seq)-1)
	updated = append(updated, seq[:idx]...)
	updated = append(updated, seq[idx+1:]...)
	s.notes[userID] = updated
	if err := s.persist(bucketNotes, s.notes); err != nil {
		s.notes[userID] = seq
		return err
	}
	return nil
}
