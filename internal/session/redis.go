// AngelaMos | 2026
// redis.go

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/eightspots/internal/core"
)

const keyPrefix = "session:"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(token string) string {
	return keyPrefix + core.HashToken(token)
}

func (s *RedisStore) Put(ctx context.Context, token string, userID int64) error {
	err := s.rdb.Set(ctx, key(token), strconv.FormatInt(userID, 10), s.ttl).Err()
	if err != nil {
		return core.StoreError("put session", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (int64, error) {
	val, err := s.rdb.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("get session: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, core.StoreError("get session", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("get session: corrupt value: %w", core.ErrNotFound)
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, key(token)).Err(); err != nil {
		return core.StoreError("delete session", err)
	}
	return nil
}
