// Package clock provides the time source used for lease bookkeeping.
// Production code uses the real clock; tests inject a MockClock so that
// lease expiry can be driven deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock is the interface for time operations.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Until(t time.Time) time.Duration
}

// RealClock provides the actual system time.
type RealClock struct{}

func (RealClock) Now() time.Time                  { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (RealClock) Until(t time.Time) time.Duration { return time.Until(t) }

// MockClock is a test clock with controllable time.
type MockClock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMockClock creates a mock clock set to the given time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the mock time.
func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Since returns the duration since t.
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Until returns the duration until t.
func (c *MockClock) Until(t time.Time) time.Duration {
	return t.Sub(c.Now())
}

// Set sets the mock time.
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Advance advances the mock time by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

var (
	defaultMu    sync.RWMutex
	defaultClock Clock = RealClock{}
)

// Default returns the process-wide clock.
func Default() Clock {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultClock
}

// SetDefault replaces the process-wide clock and returns a function that
// restores the previous one. Intended for tests.
func SetDefault(c Clock) (restore func()) {
	defaultMu.Lock()
	prev := defaultClock
	defaultClock = c
	defaultMu.Unlock()
	return func() {
		defaultMu.Lock()
		defaultClock = prev
		defaultMu.Unlock()
	}
}

// Now returns the current time of the default clock.
func Now() time.Time {
	return Default().Now()
}

// Since returns the time elapsed since t on the default clock.
func Since(t time.Time) time.Duration {
	return Default().Since(t)
}

// Expired reports whether a non-zero deadline is at or before now.
// A zero deadline never expires.
func Expired(deadline, now time.Time) bool {
	return !deadline.IsZero() && !deadline.After(now)
}
