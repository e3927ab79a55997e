package ports

import (
	"context"
	"time"
)

// RateDecision is the outcome of counting one request against a window.
type RateDecision struct {
	Allowed    bool
	Count      int64
	Limit      int
	RetryAfter time.Duration
}

// RateLimiter counts requests per (scope, key) in fixed windows.
type RateLimiter interface {
	Hit(ctx context.Context, scope, key string, limit int, window time.Duration) (RateDecision, error)
	// Undo takes back one hit, used when a request should not count.
	Undo(ctx context.Context, scope, key string) error
}
