// Package ratelimit implements fixed-window request counting keyed by
// (route class, client key). Each route class carries its own config and its
// own counters; exhausting one never affects another.
package ratelimit

import (
	"context"
	"time"
)

// Config holds the window parameters for one route class.
type Config struct {
	Window  time.Duration
	Max     int64
	Message string
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed bool
	// RetryAfter is the time until the current window elapses. Only
	// meaningful when Allowed is false; never negative.
	RetryAfter time.Duration
}

// Store increments and reads window counters. Incr counts the current
// request (post-increment semantics) and reports the remaining window
// lifetime. A request arriving after the window elapsed starts a fresh
// window with count 1.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, remaining time.Duration, err error)
}

// Limiter performs admission checks against a Store.
type Limiter struct {
	store Store
}

func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Admit counts the request and decides. The first request for a new client
// key is always allowed. Store failures propagate so the caller can fail
// closed.
func (l *Limiter) Admit(ctx context.Context, routeClass, clientKey string, cfg Config) (Decision, error) {
	count, remaining, err := l.store.Incr(ctx, routeClass+":"+clientKey, cfg.Window)
	if err != nil {
		return Decision{}, err
	}
	if count <= cfg.Max {
		return Decision{Allowed: true}, nil
	}
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: false, RetryAfter: remaining}, nil
}
