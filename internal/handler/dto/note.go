package dto

import (
	"time"

	"github.com/jotter/jotter/internal/model"
)

// CreateNoteRequest represents the request body for creating a note.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Color   string `json:"color,omitempty"`
	Pinned  bool   `json:"pinned,omitempty"`
}

// NoteResponse represents a note in API responses.
type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}

// NoteListResponse represents the caller's full note collection.
// Every mutation returns the refreshed list so clients never patch
// local state from a partial response.
type NoteListResponse struct {
	Data  []NoteResponse `json:"data"`
	Count int            `json:"count"`
}

// ToNoteResponse converts a Note model to NoteResponse DTO.
func ToNoteResponse(n *model.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Color:     n.Color,
		Pinned:    n.Pinned,
		CreatedAt: n.CreatedAt,
	}
}

// ToNoteListResponse converts a slice of Note models to NoteListResponse.
func ToNoteListResponse(notes []*model.Note) *NoteListResponse {
	responses := make([]NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = ToNoteResponse(n)
	}
	return &NoteListResponse{
		Data:  responses,
		Count: len(responses),
	}
}
