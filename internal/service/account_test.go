package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jotter/jotter/internal/metrics"
	"github.com/jotter/jotter/internal/session"
	"github.com/jotter/jotter/internal/store/memory"
)

func newAccountService() (*AccountService, *metrics.InMemoryRecorder) {
	recorder := metrics.NewInMemory()
	return NewAccountService(memory.New(), session.NewMemoryHolder(), recorder), recorder
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, recorder := newAccountService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "u@x.com", "pw1"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := svc.Register(ctx, "bob", "u@x.com", "pw2")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if got := recorder.Snapshot().UsersRegistered; got != 1 {
		t.Errorf("expected 1 registration recorded, got %d", got)
	}
}

func TestRegister_RequiredFields(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"blank_username", "  ", "u@x.com", "pw"},
		{"blank_email", "alice", "", "pw"},
		{"blank_password", "alice", "u@x.com", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.Register(ctx, test.username, test.email, test.password)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegister_PasswordNeverStoredPlain(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "u@x.com", "pw1")
	if err != nil {
		t.Fatal(err)
	}

	if user.PasswordHash == "pw1" {
		t.Error("password stored in plaintext")
	}
	if user.PasswordHash == "" {
		t.Error("expected a stored hash")
	}
}

func TestLogin_ErrorTaxonomy(t *testing.T) {
	svc, recorder := newAccountService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "u@x.com", "pw1"); err != nil {
		t.Fatal(err)
	}

	// Unknown email is NotFound, not InvalidCredentials.
	_, _, err := svc.Login(ctx, "nobody@x.com", "pw1")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	// Known email, wrong password.
	_, _, err = svc.Login(ctx, "u@x.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	snap := recorder.Snapshot()
	if snap.LoginFailures != 2 {
		t.Errorf("expected 2 recorded failures, got %d", snap.LoginFailures)
	}
}

func TestLogin_TransitionsToAuthenticated(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "u@x.com", "pw1"); err != nil {
		t.Fatal(err)
	}

	token, user, err := svc.Login(ctx, "u@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if user.Username != "alice" {
		t.Errorf("unexpected user: %+v", user)
	}

	sess, err := svc.Current(ctx, token)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if sess.Email != "u@x.com" {
		t.Errorf("unexpected session email: %s", sess.Email)
	}
}

func TestLogout_ReturnsToAnonymous(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "u@x.com", "pw1"); err != nil {
		t.Fatal(err)
	}
	token, _, err := svc.Login(ctx, "u@x.com", "pw1")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := svc.Current(ctx, token); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated after logout, got %v", err)
	}
}
