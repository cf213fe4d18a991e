package session

import (
	"context"
	"fmt"

	"github.com/jotter/jotter/internal/auth"
	"github.com/jotter/jotter/internal/cache"
	"github.com/jotter/jotter/internal/model"
)

// RedisHolder persists sessions in Redis, keyed by token digest.
// Sessions survive server restarts until explicit logout.
type RedisHolder struct {
	cache *cache.Cache
}

// NewRedisHolder creates a Holder backed by the given cache.
func NewRedisHolder(c *cache.Cache) *RedisHolder {
	return &RedisHolder{cache: c}
}

// Login stores a session snapshot of the user and returns its token.
func (h *RedisHolder) Login(ctx context.Context, user *model.User) (string, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return "", err
	}

	s := model.NewSession(user)
	if err := h.cache.SetSession(ctx, auth.QuickHash(token), s); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

// Logout removes the session for the token.
func (h *RedisHolder) Logout(ctx context.Context, token string) error {
	if !auth.ValidateTokenFormat(token) {
		return nil
	}
	return h.cache.DeleteSession(ctx, auth.QuickHash(token))
}

// Current returns the session for the token, or ErrNoSession.
func (h *RedisHolder) Current(ctx context.Context, token string) (*model.Session, error) {
	if !auth.ValidateTokenFormat(token) {
		return nil, ErrNoSession
	}

	s, err := h.cache.GetSession(ctx, auth.QuickHash(token))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}
