// Package model defines domain entities for the application.
package model

import "time"

// DefaultNoteColor matches the color assigned when a note is created
// without an explicit one.
const DefaultNoteColor = "#fff"

// Note represents a single note owned by a user.
// Notes are immutable after creation; there is no edit operation.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}
