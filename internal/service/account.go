// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jotter/jotter/internal/auth"
	"github.com/jotter/jotter/internal/metrics"
	"github.com/jotter/jotter/internal/model"
	"github.com/jotter/jotter/internal/session"
	"github.com/jotter/jotter/internal/store"
)

// Service errors.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// AccountService handles registration, login and session lookups.
type AccountService struct {
	creds    store.CredentialStore
	sessions session.Holder
	metrics  metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(creds store.CredentialStore, sessions session.Holder, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		creds:    creds,
		sessions: sessions,
		metrics:  recorder,
	}
}

// Register creates a new account. The password is stored only as an
// argon2id hash. Fails with ErrDuplicateEmail if the email is taken and
// ErrInvalidInput if a required field is blank.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.creds.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Login verifies the credentials and opens a session.
// Unknown emails fail with ErrUserNotFound, wrong passwords with
// ErrInvalidCredentials; the two stay distinct here even though the HTTP
// layer collapses them into one response.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.creds.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.metrics.IncLogin("failure")
			return "", nil, ErrUserNotFound
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		s.metrics.IncLogin("failure")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Login(ctx, user)
	if err != nil {
		return "", nil, fmt.Errorf("open session: %w", err)
	}

	s.metrics.IncLogin("success")

	return token, user, nil
}

// Logout ends the session for the token. Unknown tokens are a no-op.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Logout(ctx, token)
}

// Current returns the session for the token, or ErrNotAuthenticated.
func (s *AccountService) Current(ctx context.Context, token string) (*model.Session, error) {
	sess, err := s.sessions.Current(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return sess, nil
}
