// internal/session/redis.go
package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"papertrade/internal/config"
)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return rdb, nil
}
