package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jotter/jotter/internal/metrics"
	"github.com/jotter/jotter/internal/model"
	"github.com/jotter/jotter/internal/store"
)

// NoteService handles per-user note operations.
// Every mutation returns the full refreshed sequence read back from the
// store, so callers always render persisted state rather than merging
// optimistically.
type NoteService struct {
	notes   store.NoteStore
	metrics metrics.Recorder
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes store.NoteStore, recorder metrics.Recorder) *NoteService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &NoteService{
		notes:   notes,
		metrics: recorder,
	}
}

// AddNoteInput defines input for creating a note.
type AddNoteInput struct {
	UserID  string
	Title   string
	Content string
	Color   string
	Pinned  bool
}

// List returns the user's notes in insertion order. A never-seen user gets
// an empty, persisted sequence.
func (s *NoteService) List(ctx context.Context, userID string) ([]*model.Note, error) {
	notes, err := s.notes.ListNotes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Add appends a new note and returns the refreshed sequence.
// Validation happens here, not in the handlers: a note with both title and
// content blank after trimming fails with ErrInvalidInput.
func (s *NoteService) Add(ctx context.Context, input AddNoteInput) ([]*model.Note, error) {
	if strings.TrimSpace(input.Title) == "" && strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidInput
	}

	color := input.Color
	if color == "" {
		color = model.DefaultNoteColor
	}

	note := &model.Note{
		ID:        ulid.Make().String(),
		UserID:    input.UserID,
		Title:     input.Title,
		Content:   input.Content,
		Color:     color,
		Pinned:    input.Pinned,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.notes.AddNote(ctx, note); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}

	s.metrics.IncNoteCreated()

	return s.List(ctx, input.UserID)
}

// Delete removes the note with the given id and returns the refreshed
// sequence. An absent id is a success no-op.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) ([]*model.Note, error) {
	if err := s.notes.DeleteNote(ctx, userID, noteID); err != nil {
		return nil, fmt.Errorf("delete note: %w", err)
	}

	s.metrics.IncNoteDeleted()

	return s.List(ctx, userID)
}
