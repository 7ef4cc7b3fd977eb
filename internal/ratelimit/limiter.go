// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

// Package ratelimit provides the outbound throttle shared by every map
// service client. All geocoding, places and directions calls pass through
// the same Limiter so the combined request rate stays under provider quotas.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/metrics"
)

// Limiter blocks until the caller may issue one outbound request.
type Limiter interface {
	Wait(ctx context.Context) error
}

// TokenBucket is a Limiter backed by golang.org/x/time/rate.
type TokenBucket struct {
	limiter *rate.Limiter
}

// New creates a token bucket that admits one request per interval with the
// given burst. An interval of zero disables throttling.
func New(interval time.Duration, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &TokenBucket{limiter: rate.NewLimiter(limit, burst)}
}

// NewFromConfig creates the shared limiter from configuration.
func NewFromConfig(cfg config.RateLimitConfig) *TokenBucket {
	return New(cfg.Interval, cfg.Burst)
}

// Wait blocks until a token is available or ctx is done. When the next
// token lies beyond ctx's deadline it fails at once, and the error matches
// context.DeadlineExceeded even though ctx has not expired yet.
func (b *TokenBucket) Wait(ctx context.Context) error {
	start := time.Now()
	if err := b.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("rate limiter wait: %w", ctxErr)
		}
		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("rate limiter wait: %w: %v", context.DeadlineExceeded, err)
		}
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	metrics.ThrottleWaitDuration.Observe(time.Since(start).Seconds())
	return nil
}

// Unlimited is a Limiter that never blocks. It still honours cancellation.
type Unlimited struct{}

// Wait returns ctx.Err() without blocking.
func (Unlimited) Wait(ctx context.Context) error {
	return ctx.Err()
}
