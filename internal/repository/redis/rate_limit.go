package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

var _ repository.RateLimitStore = (*redisRateLimit)(nil)

const rateKeyPrefix = "roblox-proxy:rate:"

type redisRateLimit struct {
	client *goredis.Client
}

// NewRedisRateLimitStore creates a Redis-backed fixed-window counter shared
// by every proxy instance pointing at the same Redis.
func NewRedisRateLimitStore(client *goredis.Client) repository.RateLimitStore {
	return &redisRateLimit{client: client}
}

// Hit increments the window counter with INCR and arms its TTL with EXPIRE NX
// in one transaction, so the window starts at the first request.
func (r *redisRateLimit) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := rateKeyPrefix + key

	var incr *goredis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		pipe.ExpireNX(ctx, fullKey, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis: rate limit hit: %w", err)
	}
	return incr.Val(), nil
}
