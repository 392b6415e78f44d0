// Package ratelimit implements sliding-window request limiting keyed by
// client IP. Two stores are provided: an in-memory one for single-instance
// deployments and a Redis one for anything running more than one replica.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// Store checks and counts requests against a sliding window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
