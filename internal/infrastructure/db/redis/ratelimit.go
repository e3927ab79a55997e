package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lppm/portal-auth/internal/core/ports"
)

const keyPrefix = "ratelimit"

// undoScript only decrements a live counter so an expired window is not
// resurrected without a TTL.
var undoScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return redis.call('DECR', KEYS[1])
end
return 0
`)

// RateLimiter implements fixed-window counting backed by Redis.
// Key format: ratelimit:<scope>:<key>
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a RateLimiter wrapping the given Redis client.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Hit counts one request. The window starts with the first hit.
func (l *RateLimiter) Hit(ctx context.Context, scope, key string, limit int, window time.Duration) (ports.RateDecision, error) {
	k := l.key(scope, key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit hit: %w", err)
	}

	count := incr.Val()
	retry := ttl.Val()
	if retry < 0 {
		retry = window
	}
	return ports.RateDecision{
		Allowed:    count <= int64(limit),
		Count:      count,
		Limit:      limit,
		RetryAfter: retry,
	}, nil
}

func (l *RateLimiter) Undo(ctx context.Context, scope, key string) error {
	if err := undoScript.Run(ctx, l.client, []string{l.key(scope, key)}).Err(); err != nil {
		return fmt.Errorf("rate limit undo: %w", err)
	}
	return nil
}

func (l *RateLimiter) key(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, scope, key)
}
