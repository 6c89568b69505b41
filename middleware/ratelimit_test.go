package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRateLimiter(limit int, window time.Duration, now *time.Time) *rateLimiter {
	return &rateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     func() time.Time { return *now },
	}
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := newTestRateLimiter(3, time.Minute, &now)

	for i := 0; i < 3; i++ {
		_, allowed := rl.take("1.2.3.4")
		assert.True(t, allowed)
	}

	retryAfter, allowed := rl.take("1.2.3.4")
	assert.False(t, allowed)
	assert.True(t, retryAfter > 0)
}

func TestRateLimiterIsPerClient(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := newTestRateLimiter(1, time.Minute, &now)

	_, allowed := rl.take("1.2.3.4")
	assert.True(t, allowed)
	_, allowed = rl.take("1.2.3.4")
	assert.False(t, allowed)

	_, allowed = rl.take("5.6.7.8")
	assert.True(t, allowed)
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := newTestRateLimiter(1, time.Minute, &now)

	rl.take("1.2.3.4")
	_, allowed := rl.take("1.2.3.4")
	assert.False(t, allowed)

	now = now.Add(time.Minute + time.Second)
	_, allowed = rl.take("1.2.3.4")
	assert.True(t, allowed)
}

func TestRateLimiterCleanupDropsExpiredWindows(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := newTestRateLimiter(1, time.Minute, &now)

	rl.take("1.2.3.4")
	rl.take("5.6.7.8")

	now = now.Add(2 * time.Minute)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.clients)
}
