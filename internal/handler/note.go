package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jotter/jotter/internal/auth"
	"github.com/jotter/jotter/internal/handler/dto"
	"github.com/jotter/jotter/internal/service"
)

// NoteHandler handles HTTP requests for note operations. All routes
// require an authenticated session; the user ID always comes from the
// session, never from the request body.
type NoteHandler struct {
	svc    *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFromContext(r.Context())
	if s == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	notes, err := h.svc.List(r.Context(), s.UserID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToNoteListResponse(notes))
}

// Create handles POST /api/v1/notes.
// Responds with the full refreshed list, not just the new note.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFromContext(r.Context())
	if s == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	var req dto.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	notes, err := h.svc.Add(r.Context(), service.AddNoteInput{
		UserID:  s.UserID,
		Title:   req.Title,
		Content: req.Content,
		Color:   req.Color,
		Pinned:  req.Pinned,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("note_created", "user_id", s.UserID, "note_count", len(notes))

	writeJSON(w, http.StatusCreated, dto.ToNoteListResponse(notes))
}

// Delete handles DELETE /api/v1/notes/{id}.
// Deleting an ID that is already gone still returns the current list.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFromContext(r.Context())
	if s == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Note ID is required")
		return
	}

	notes, err := h.svc.Delete(r.Context(), s.UserID, id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("note_deleted", "user_id", s.UserID, "note_id", id)

	writeJSON(w, http.StatusOK, dto.ToNoteListResponse(notes))
}
