package services

import (
	"strings"
	"sync"
	"time"
)

// LoginLimiter throttles repeated failed logins per identity. It is injected
// into the auth handler so the in-memory implementation can be swapped for a
// shared store in a multi-instance deployment without touching call sites.
type LoginLimiter interface {
	// Allow reports whether a login attempt for key may proceed.
	Allow(key string) bool
	// Record registers the outcome of a login attempt for key.
	Record(key string, success bool)
}

type loginAttempt struct {
	failures    int
	lastFailure time.Time
}

// memoryLoginLimiter is process-local: it does not survive restarts and does
// not coordinate across instances.
type memoryLoginLimiter struct {
	mu          sync.Mutex
	attempts    map[string]loginAttempt
	maxFailures int
	window      time.Duration
	now         func() time.Time
}

// NewLoginLimiter returns the in-memory limiter: 5 failures within a
// 15-minute window block further attempts for that email.
func NewLoginLimiter() LoginLimiter {
	return &memoryLoginLimiter{
		attempts:    make(map[string]loginAttempt),
		maxFailures: 5,
		window:      15 * time.Minute,
		now:         time.Now,
	}
}

func (l *memoryLoginLimiter) Allow(key string) bool {
	key = normalizeKey(key)

	l.mu.Lock()
	defer l.mu.Unlock()

	attempt, ok := l.attempts[key]
	if !ok {
		return true
	}
	if attempt.failures >= l.maxFailures && l.now().Sub(attempt.lastFailure) < l.window {
		return false
	}
	return true
}

func (l *memoryLoginLimiter) Record(key string, success bool) {
	key = normalizeKey(key)

	l.mu.Lock()
	defer l.mu.Unlock()

	if success {
		delete(l.attempts, key)
		return
	}

	// The counter keeps incrementing from its stored value even when the
	// window has lapsed; only a successful login clears it.
	attempt := l.attempts[key]
	attempt.failures++
	attempt.lastFailure = l.now()
	l.attempts[key] = attempt
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
