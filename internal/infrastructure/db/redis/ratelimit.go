package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindowLimiter implements ports.RequestLimiter with a Redis fixed
// window: INCR the key, attach the window TTL on the first hit, and refuse
// once the count exceeds the maximum. Used as the request-rate guard on the
// verification endpoints; it is not a business-state guard.
type FixedWindowLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

func NewFixedWindowLimiter(client *redis.Client, max int, window time.Duration, prefix string) *FixedWindowLimiter {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &FixedWindowLimiter{client: client, max: max, window: window, prefix: prefix}
}

// Allow reports whether another request under key fits in the current window.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= int64(l.max), nil
}
