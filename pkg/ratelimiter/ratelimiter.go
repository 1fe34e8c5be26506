package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"racego.com/raceapi/pkg/apperror"
)

// RateLimitError is returned when an action is attempted again before its
// lock expires.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Limiter locks an action for a key for a fixed window. A nil redis client
// disables limiting.
type Limiter struct {
	rdb    *redis.Client
	window time.Duration
}

func New(rdb *redis.Client, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, window: window}
}

func key(action, subject string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, subject)
}

// Check takes the lock for action/subject or returns a RateLimitError with the
// remaining lock time.
func (l *Limiter) Check(ctx context.Context, action, subject string) error {
	if l == nil || l.rdb == nil || l.window <= 0 {
		return nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(action, subject), "locked", l.window).Result()
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if wasSet {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, key(action, subject)).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return &RateLimitError{
		Message:    fmt.Sprintf("too many attempts, retry in %.0fs", ttl.Seconds()),
		RetryAfter: ttl,
	}
}

func (l *Limiter) Clear(ctx context.Context, action, subject string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(action, subject)).Err()
}
