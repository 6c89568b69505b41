package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(now *time.Time) *memoryLoginLimiter {
	return &memoryLoginLimiter{
		attempts:    make(map[string]loginAttempt),
		maxFailures: 5,
		window:      15 * time.Minute,
		now:         func() time.Time { return *now },
	}
}

func TestLoginLimiterBlocksAfterFiveFailures(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&now)

	for i := 0; i < 4; i++ {
		assert.True(t, limiter.Allow("user@example.com"))
		limiter.Record("user@example.com", false)
	}
	assert.True(t, limiter.Allow("user@example.com"))
	limiter.Record("user@example.com", false)

	assert.False(t, limiter.Allow("user@example.com"))
}

func TestLoginLimiterAllowsAgainAfterWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&now)

	for i := 0; i < 5; i++ {
		limiter.Record("user@example.com", false)
	}
	assert.False(t, limiter.Allow("user@example.com"))

	now = now.Add(15 * time.Minute)
	assert.True(t, limiter.Allow("user@example.com"))
}

func TestLoginLimiterSuccessClearsFailures(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&now)

	for i := 0; i < 5; i++ {
		limiter.Record("user@example.com", false)
	}
	limiter.Record("user@example.com", true)

	assert.True(t, limiter.Allow("user@example.com"))
}

// A lapsed window does not reset the stored counter: one more failure after
// the window re-blocks immediately.
func TestLoginLimiterCounterSurvivesWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&now)

	for i := 0; i < 5; i++ {
		limiter.Record("user@example.com", false)
	}

	now = now.Add(16 * time.Minute)
	assert.True(t, limiter.Allow("user@example.com"))

	limiter.Record("user@example.com", false)
	assert.False(t, limiter.Allow("user@example.com"))
}

func TestLoginLimiterNormalizesKey(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := newTestLimiter(&now)

	for i := 0; i < 5; i++ {
		limiter.Record("  User@Example.COM ", false)
	}
	assert.False(t, limiter.Allow("user@example.com"))
	assert.True(t, limiter.Allow("other@example.com"))
}
