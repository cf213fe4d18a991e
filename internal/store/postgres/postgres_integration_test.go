package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jotter/jotter/internal/model"
	"github.com/jotter/jotter/internal/store"
	"github.com/jotter/jotter/internal/testutil"
)

// newTestStore connects to the DATABASE_URL database and resets the
// schema. Tests are skipped when DATABASE_URL is not set.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	databaseURL := testutil.RequireEnv(t, "DATABASE_URL")
	ctx := context.Background()

	st, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	unlock, err := testutil.AcquireDBLock(ctx, st.Pool())
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	t.Cleanup(func() { unlock() })

	// Dropping users cascades to notes, so reset users first.
	if err := testutil.ResetUsersSchema(ctx, st.Pool()); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}
	if err := testutil.ResetNotesSchema(ctx, st.Pool()); err != nil {
		t.Fatalf("reset notes schema: %v", err)
	}

	return st
}

func TestStore_UserRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, testutil.UniqueEmail("roundtrip"))
	if err := st.CreateUser(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	byEmail, err := st.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("id mismatch: got %s, want %s", byEmail.ID, user.ID)
	}
	if byEmail.PasswordHash != user.PasswordHash {
		t.Error("password hash not preserved")
	}

	byID, err := st.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != user.Email {
		t.Errorf("email mismatch: got %s, want %s", byID.Email, user.Email)
	}
}

func TestStore_DuplicateEmailRejected(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	email := testutil.UniqueEmail("dup")
	first := testutil.NewTestUser(t, email)
	if err := st.CreateUser(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := testutil.NewTestUser(t, email)
	second.ID = testutil.UniqueID("user")
	err := st.CreateUser(ctx, second)
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_UnknownUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := st.GetUserByID(ctx, "missing"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_NoteLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, testutil.UniqueEmail("notes"))
	if err := st.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	// A new user has no notes, but the result is a real empty slice.
	notes, err := st.ListNotes(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", notes)
	}

	// Insert two notes a tick apart so created_at ordering is stable.
	titles := []string{"Groceries", "Todo"}
	ids := make([]string, len(titles))
	for i, title := range titles {
		n := testutil.NewTestNote(t, user.ID, title)
		n.ID = ulid.Make().String()
		n.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Millisecond)
		if err := st.AddNote(ctx, n); err != nil {
			t.Fatalf("add %q: %v", title, err)
		}
		ids[i] = n.ID
	}

	notes, err = st.ListNotes(ctx, user.ID)
	if err != nil {
		t.Fatalf("list after add: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].Title != "Groceries" || notes[1].Title != "Todo" {
		t.Errorf("notes out of order: %q, %q", notes[0].Title, notes[1].Title)
	}

	// Delete the first; deleting it again is a no-op.
	for i := 0; i < 2; i++ {
		if err := st.DeleteNote(ctx, user.ID, ids[0]); err != nil {
			t.Fatalf("delete attempt %d: %v", i+1, err)
		}
	}

	notes, err = st.ListNotes(ctx, user.ID)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != ids[1] {
		t.Fatalf("unexpected notes after delete: %#v", notes)
	}
}

func TestStore_DeleteScopedToOwner(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, testutil.UniqueEmail("owner"))
	other := testutil.NewTestUser(t, testutil.UniqueEmail("other"))
	other.ID = testutil.UniqueID("user")
	for _, u := range []*model.User{owner, other} {
		if err := st.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	n := testutil.NewTestNote(t, owner.ID, "Private")
	n.ID = ulid.Make().String()
	if err := st.AddNote(ctx, n); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Another user cannot delete it, even knowing the ID.
	if err := st.DeleteNote(ctx, other.ID, n.ID); err != nil {
		t.Fatalf("cross-user delete: %v", err)
	}

	notes, err := st.ListNotes(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("note was deleted by a non-owner")
	}
}
