package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/jotter/jotter/internal/model"
	"github.com/jotter/jotter/internal/store"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.CreateUser(ctx, &model.User{ID: "u1", Email: "u@x.com"}); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}

	err := s.CreateUser(ctx, &model.User{ID: "u2", Email: "u@x.com"})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "u@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("expected first registration to win, got %s", got.ID)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.GetUserByEmail(ctx, "nobody@x.com"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound by email, got %v", err)
	}
	if _, err := s.GetUserByID(ctx, "missing"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound by id, got %v", err)
	}
}

func TestListNotes_EmptyAndIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		notes, err := s.ListNotes(ctx, "u1")
		if err != nil {
			t.Fatalf("ListNotes failed: %v", err)
		}
		if len(notes) != 0 {
			t.Errorf("expected empty sequence, got %d notes", len(notes))
		}
	}
}

func TestAddAndDeleteNote(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, id := range []string{"n1", "n2", "n3"} {
		if err := s.AddNote(ctx, &model.Note{ID: id, UserID: "u1", Title: id}); err != nil {
			t.Fatalf("AddNote failed: %v", err)
		}
	}

	// Absent id is a no-op.
	if err := s.DeleteNote(ctx, "u1", "n9"); err != nil {
		t.Fatalf("DeleteNote(absent) failed: %v", err)
	}

	if err := s.DeleteNote(ctx, "u1", "n2"); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}

	notes, err := s.ListNotes(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 || notes[0].ID != "n1" || notes[1].ID != "n3" {
		t.Errorf("unexpected sequence after delete: %+v", notes)
	}
}

func TestNotes_IsolatedPerUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.AddNote(ctx, &model.Note{ID: "n1", UserID: "u1"})
	_ = s.AddNote(ctx, &model.Note{ID: "n2", UserID: "u2"})

	notes, err := s.ListNotes(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].ID != "n1" {
		t.Errorf("expected only u1's note, got %+v", notes)
	}
}
