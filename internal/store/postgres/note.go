package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jotter/jotter/internal/model"
)

// ListNotes retrieves all notes for a user, oldest-first.
// Rows already scope the partition by user_id, so a never-seen user simply
// yields an empty slice; no initialization row is needed.
func (s *Store) ListNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	query := `
		SELECT id, user_id, title, content, color, pinned, created_at
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*model.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

// AddNote inserts a new note into the database.
func (s *Store) AddNote(ctx context.Context, note *model.Note) error {
	query := `
		INSERT INTO notes (id, user_id, title, content, color, pinned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.Color,
		note.Pinned,
		note.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	return nil
}

// DeleteNote removes a note by id, scoped to its owner.
// Zero rows affected is not an error: deleting an absent id is a no-op.
func (s *Store) DeleteNote(ctx context.Context, userID, noteID string) error {
	query := `
		DELETE FROM notes
		WHERE id = $1 AND user_id = $2
	`

	if _, err := s.pool.Exec(ctx, query, noteID, userID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// scanNote scans a row into a Note model.
func scanNote(rows pgx.Rows) (*model.Note, error) {
	var note model.Note
	err := rows.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&note.Color,
		&note.Pinned,
		&note.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}
