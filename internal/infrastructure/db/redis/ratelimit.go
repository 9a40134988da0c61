package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimiter implements a fixed-window counter per client key. The first
// request in a window creates the counter with an expiry equal to the
// window; every request increments it. Fail-open: when Redis is down the
// limiter allows the request and logs, so an infrastructure outage does
// not take the API with it.
type RateLimiter struct {
	client *redis.Client
	window time.Duration
	max    int64
	log    zerolog.Logger
}

func NewRateLimiter(client *redis.Client, window time.Duration, max int64, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{client: client, window: window, max: max, log: log}
}

// Allow reports whether the caller identified by key may proceed, and how
// many requests remain in the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		return true, l.max, nil
	}
	if count == 1 {
		// First hit opens the window.
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.log.Warn().Err(err).Msg("rate limiter expiry not set")
		}
	}
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.max, remaining, nil
}
