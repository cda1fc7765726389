// AngelaMos | 2026
// store.go

// Package session keeps the mapping from an opaque session token to the
// user it authenticates. Tokens are never stored in the clear; backends key
// on core.HashToken(token).
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/eightspots/internal/config"
)

type Store interface {
	// Put binds token to userID, replacing any previous binding.
	Put(ctx context.Context, token string, userID int64) error
	// Get returns core.ErrNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (int64, error)
	// Delete is idempotent.
	Delete(ctx context.Context, token string) error
}

// NewStore picks the backend named by cfg.Backend. rdb may be nil when the
// memory backend is selected.
func NewStore(cfg config.SessionConfig, rdb *redis.Client) (Store, error) {
	switch cfg.Backend {
	case config.SessionBackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("session backend %q needs a redis client", cfg.Backend)
		}
		return NewRedisStore(rdb, cfg.TTL), nil
	case config.SessionBackendMemory:
		return NewMemoryStore(cfg.TTL, time.Now), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
