// Package ratelimit counts requests per key inside fixed time windows.
//
// The counters live behind the Store interface so the same Limiter can run
// against process memory or a shared Redis instance.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultMax    = 10
	DefaultWindow = time.Minute
)

// Store increments the counter of key inside its current window.
// It returns the count after the increment and the time the window ends.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// Result describes the limiter decision for a single hit
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter allows at most Max hits per key within Window
type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

// New creates a Limiter. Non-positive max or window fall back to the defaults.
func New(store Store, max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{store: store, max: max, window: window}
}

// Max returns the number of hits allowed per window
func (l *Limiter) Max() int { return l.max }

// Window returns the window length
func (l *Limiter) Window() time.Duration { return l.window }

// Hit records one request for key
func (l *Limiter) Hit(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit store: %w", err)
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
