package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"racego.com/raceapi/pkg/apperror"
)

func TestNilClientDisablesLimiting(t *testing.T) {
	l := New(nil, time.Minute)
	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Check(context.Background(), "login", "admin"))
	}
	assert.NoError(t, l.Clear(context.Background(), "login", "admin"))

	var nilLimiter *Limiter
	assert.NoError(t, nilLimiter.Check(context.Background(), "login", "admin"))
}

func TestRateLimitErrorUnwraps(t *testing.T) {
	err := error(&RateLimitError{Message: "slow down", RetryAfter: time.Second})
	assert.True(t, errors.Is(err, apperror.ErrRateLimitExceeded))
	assert.Equal(t, "slow down", err.Error())
}
