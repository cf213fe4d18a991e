package localstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jotter/jotter/internal/model"
	"github.com/jotter/jotter/internal/store"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func testUser(email string) *model.User {
	return &model.User{
		ID:           "usr_" + email,
		Username:     "u-" + email,
		Email:        email,
		PasswordHash: "$argon2id$...",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func testNote(userID, id, title string) *model.Note {
	return &model.Note{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Content:   "body of " + title,
		Color:     model.DefaultNoteColor,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("u@x.com")))

	err := s.CreateUser(ctx, testUser("u@x.com"))
	require.ErrorIs(t, err, store.ErrDuplicateEmail)

	// Store size unchanged: only the first registration is visible.
	got, err := s.GetUserByEmail(ctx, "u@x.com")
	require.NoError(t, err)
	require.Equal(t, "usr_u@x.com", got.ID)
}

func TestGetUser_NotFound(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	_, err := s.GetUserByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = s.GetUserByID(ctx, "usr_missing")
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestListNotes_LazyInitIsIdempotent(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	notes, err := s.ListNotes(ctx, "usr_1")
	require.NoError(t, err)
	require.Empty(t, notes)

	again, err := s.ListNotes(ctx, "usr_1")
	require.NoError(t, err)
	require.Empty(t, again)
}

func TestAddNote_AppendsInOrder(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddNote(ctx, testNote("usr_1", "n1", "Groceries")))
	require.NoError(t, s.AddNote(ctx, testNote("usr_1", "n2", "Todo")))
	require.NoError(t, s.AddNote(ctx, testNote("usr_2", "n3", "Other user")))

	notes, err := s.ListNotes(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	require.Equal(t, "Groceries", notes[0].Title)
	require.Equal(t, "Todo", notes[1].Title)
}

func TestDeleteNote(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddNote(ctx, testNote("usr_1", "n1", "a")))
	require.NoError(t, s.AddNote(ctx, testNote("usr_1", "n2", "b")))
	require.NoError(t, s.AddNote(ctx, testNote("usr_1", "n3", "c")))

	// Absent id: success no-op.
	require.NoError(t, s.DeleteNote(ctx, "usr_1", "n9"))
	notes, err := s.ListNotes(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, notes, 3)

	// Present id: removes exactly that element, order preserved.
	require.NoError(t, s.DeleteNote(ctx, "usr_1", "n2"))
	notes, err = s.ListNotes(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	require.Equal(t, "n1", notes[0].ID)
	require.Equal(t, "n3", notes[1].ID)

	// Wrong owner: no-op, note survives.
	require.NoError(t, s.DeleteNote(ctx, "usr_2", "n1"))
	notes, err = s.ListNotes(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
}

func TestReopen_StateSurvives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.CreateUser(ctx, testUser("u@x.com")))
	require.NoError(t, s.AddNote(ctx, testNote("usr_u@x.com", "n1", "persisted")))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	u, err := reopened.GetUserByEmail(ctx, "u@x.com")
	require.NoError(t, err)
	require.Equal(t, "u-u@x.com", u.Username)
	// The credential must survive the restart even though the API-facing
	// model never serializes it.
	require.Equal(t, testUser("u@x.com").PasswordHash, u.PasswordHash)
	require.NotEmpty(t, u.PasswordHash)

	notes, err := reopened.ListNotes(ctx, "usr_u@x.com")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "persisted", notes[0].Title)
}

func TestOpen_RejectsUnknownSchemaVersion(t *testing.T) {
	s, path := openStore(t)
	_, err := s.db.Exec(`INSERT INTO state (bucket, version, payload) VALUES ('users', 99, '[]')
		ON CONFLICT(bucket) DO UPDATE SET version = excluded.version, payload = excluded.payload`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSchemaVersion))
}

func TestListNotes_ReturnsCopies(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddNote(ctx, testNote("usr_1", "n1", "original")))

	notes, err := s.ListNotes(ctx, "usr_1")
	require.NoError(t, err)
	notes[0].Title = "mutated by caller"

	notes, err = s.ListNotes(ctx, "usr_1")
	require.NoError(t, err)
	require.Equal(t, "original", notes[0].Title)
}
