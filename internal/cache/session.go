package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jotter/jotter/internal/model"
)

// sessionPrefix is the Redis key prefix for sessions. Keys are derived from
// token digests, never raw tokens.
const sessionPrefix = "session:tok:"

// Sessions have no expiry: the state machine is Anonymous/Authenticated with
// logout as the only exit transition.
const sessionTTL = 0

// storedSession is the canonical serialized session shape.
type storedSession struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// GetSession retrieves a session by token digest. Returns nil on a miss;
// a corrupted entry is also treated as a miss. Redis is the authoritative
// session store, so any other error propagates instead of logging the
// caller out.
func (c *Cache) GetSession(ctx context.Context, tokenDigest string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionPrefix+tokenDigest).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, nil //nolint:nilerr
	}

	return &model.Session{
		UserID:    stored.UserID,
		Username:  stored.Username,
		Email:     stored.Email,
		CreatedAt: stored.CreatedAt,
	}, nil
}

// SetSession stores a session under the token digest.
func (c *Cache) SetSession(ctx context.Context, tokenDigest string, s *model.Session) error {
	stored := storedSession{
		UserID:    s.UserID,
		Username:  s.Username,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return c.client.Set(ctx, sessionPrefix+tokenDigest, data, sessionTTL).Err()
}

// DeleteSession removes a session. Used on logout.
func (c *Cache) DeleteSession(ctx context.Context, tokenDigest string) error {
	return c.client.Del(ctx, sessionPrefix+tokenDigest).Err()
}
