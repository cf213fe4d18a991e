package session

import (
	"context"
	"sync"

	"github.com/jotter/jotter/internal/auth"
	"github.com/jotter/jotter/internal/model"
)

// MemoryHolder keeps sessions in a process-local map. Sessions last for the
// lifetime of the process; a restart logs everyone out.
type MemoryHolder struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session // token digest -> session
}

// NewMemoryHolder creates an empty MemoryHolder.
func NewMemoryHolder() *MemoryHolder {
	return &MemoryHolder{sessions: make(map[string]*model.Session)}
}

// Login records a session snapshot of the user and returns its token.
func (h *MemoryHolder) Login(_ context.Context, user *model.User) (string, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return "", err
	}

	h.mu.Lock()
	h.sessions[auth.QuickHash(token)] = model.NewSession(user)
	h.mu.Unlock()

	return token, nil
}

// Logout removes the session for the token.
func (h *MemoryHolder) Logout(_ context.Context, token string) error {
	if !auth.ValidateTokenFormat(token) {
		return nil
	}

	h.mu.Lock()
	delete(h.sessions, auth.QuickHash(token))
	h.mu.Unlock()
	return nil
}

// Current returns the session for the token, or ErrNoSession.
func (h *MemoryHolder) Current(_ context.Context, token string) (*model.Session, error) {
	if !auth.ValidateTokenFormat(token) {
		return nil, ErrNoSession
	}

	h.mu.RLock()
	s, ok := h.sessions[auth.QuickHash(token)]
	h.mu.RUnlock()

	if !ok {
		return nil, ErrNoSession
	}

	cp := *s
	return &cp, nil
}
