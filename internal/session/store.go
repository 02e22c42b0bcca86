// internal/session/store.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"papertrade/internal/util"
)

// Store maps opaque session tokens to authenticated user ids.
type Store interface {
	// Create opens a session for userID and returns its token.
	Create(ctx context.Context, userID int64) (string, error)
	// Get resolves a token to a user id; an unknown or expired token is
	// util.ErrUnauthorized.
	Get(ctx context.Context, token string) (int64, error)
	// Delete ends a session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}

// RedisStore implements Store backed by Redis with a TTL per session.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: redisClient, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Create opens a session for userID and returns its token.
func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.redis.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Get resolves a token to a user id.
func (s *RedisStore) Get(ctx context.Context, token string) (int64, error) {
	val, err := s.redis.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, util.ErrUnauthorized
		}
		return 0, fmt.Errorf("failed to read session: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value %q: %w", val, err)
	}
	return userID, nil
}

// Delete ends a session.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
