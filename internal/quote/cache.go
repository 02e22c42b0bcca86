// internal/quote/cache.go
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"papertrade/internal/domain"
)

// CachedProvider serves quotes from Redis, falling back to the wrapped
// provider on a miss. Cache failures degrade to a direct lookup.
type CachedProvider struct {
	provider Provider
	redis    *redis.Client
	ttl      time.Duration
}

var _ Provider = (*CachedProvider)(nil)

// NewCachedProvider wraps provider with a Redis quote cache.
func NewCachedProvider(provider Provider, redisClient *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		redis:    redisClient,
		ttl:      ttl,
	}
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("quote:%s", strings.ToUpper(strings.TrimSpace(symbol)))
}

// Lookup returns a cached quote when one is fresh, otherwise fetches from the
// wrapped provider and caches the result.
func (p *CachedProvider) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	key := cacheKey(symbol)

	cached, err := p.redis.Get(ctx, key).Result()
	if err == nil {
		q := &domain.Quote{}
		if err := json.Unmarshal([]byte(cached), q); err == nil {
			return q, nil
		}
		slog.Warn("discarding unreadable cached quote", "key", key)
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("quote cache read failed", "key", key, "error", err)
	}

	q, err := p.provider.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(q)
	if err != nil {
		return q, nil
	}
	if err := p.redis.Set(ctx, key, payload, p.ttl).Err(); err != nil {
		slog.Warn("quote cache write failed", "key", key, "error", err)
	}
	return q, nil
}
