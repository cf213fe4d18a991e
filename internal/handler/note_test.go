package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jotter/jotter/internal/auth"
	"github.com/jotter/jotter/internal/handler/dto"
	"github.com/jotter/jotter/internal/metrics"
	"github.com/jotter/jotter/internal/model"
	"github.com/jotter/jotter/internal/service"
	"github.com/jotter/jotter/internal/store/memory"
)

func newNoteHandler() *NoteHandler {
	svc := service.NewNoteService(memory.New(), metrics.NewNoop())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNoteHandler(svc, logger)
}

func authedRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := auth.ContextWithSession(req.Context(), &model.Session{
		UserID:   "u1",
		Username: "alice",
		Email:    "alice@example.com",
	})
	return req.WithContext(ctx)
}

func TestNoteHandler_List_EmptyByDefault(t *testing.T) {
	h := newNoteHandler()

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/v1/notes", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.NoteListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Count != 0 {
		t.Errorf("expected empty list, got %d notes", resp.Count)
	}
	if resp.Data == nil {
		t.Error("expected data to be an empty array, not null")
	}
}

func TestNoteHandler_Create_ReturnsFullList(t *testing.T) {
	h := newNoteHandler()

	bodies := []string{
		`{"title":"Groceries","content":"Milk, eggs"}`,
		`{"title":"Todo","content":"Call bank","color":"#fbbc04","pinned":true}`,
	}

	var resp dto.NoteListResponse
	for i, body := range bodies {
		rec := httptest.NewRecorder()
		h.Create(rec, authedRequest(http.MethodPost, "/api/v1/notes", body))

		if rec.Code != http.StatusCreated {
			t.Fatalf("create %d: expected status 201, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Count != i+1 {
			t.Fatalf("create %d: expected %d notes in response, got %d", i+1, i+1, resp.Count)
		}
	}

	if resp.Data[0].Title != "Groceries" || resp.Data[1].Title != "Todo" {
		t.Errorf("notes out of order: %q, %q", resp.Data[0].Title, resp.Data[1].Title)
	}
	if resp.Data[0].Color != model.DefaultNoteColor {
		t.Errorf("expected default color, got %s", resp.Data[0].Color)
	}
	if !resp.Data[1].Pinned {
		t.Error("expected second note to be pinned")
	}
}

func TestNoteHandler_Create_BlankNoteRejected(t *testing.T) {
	h := newNoteHandler()

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/v1/notes", `{"title":"  ","content":""}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "INVALID_INPUT" {
		t.Errorf("unexpected error code: %s", resp.Code)
	}
}

func TestNoteHandler_Delete(t *testing.T) {
	h := newNoteHandler()

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/v1/notes", `{"title":"Groceries","content":"Milk"}`))

	var created dto.NoteListResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	req := authedRequest(http.MethodDelete, "/api/v1/notes/"+created.Data[0].ID, "")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", created.Data[0].ID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec = httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.NoteListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 0 {
		t.Errorf("expected empty list after delete, got %d notes", resp.Count)
	}
}

func TestNoteHandler_RequiresSession(t *testing.T) {
	h := newNoteHandler()

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}
