// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/doorknock/internal/config"
)

func TestTokenBucketBurst(t *testing.T) {
	b := New(time.Hour, 3)
	ctx := context.Background()

	// The first burst tokens are available immediately.
	for i := 0; i < 3; i++ {
		if err := b.Wait(ctx); err != nil {
			t.Fatalf("Wait() #%d error = %v", i, err)
		}
	}

	// The next token is an hour away; a short deadline must fail fast.
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := b.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Wait() should fail before the deadline passes")
	}
}

func TestTokenBucketCancelled(t *testing.T) {
	b := New(time.Hour, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestTokenBucketZeroIntervalIsUnthrottled(t *testing.T) {
	b := New(0, 1)
	for i := 0; i < 100; i++ {
		if err := b.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() #%d error = %v", i, err)
		}
	}
}

func TestNewFromConfigClampsBurst(t *testing.T) {
	b := NewFromConfig(config.RateLimitConfig{Interval: time.Second, Burst: 0})
	if got := b.limiter.Burst(); got != 1 {
		t.Errorf("Burst() = %d, want 1", got)
	}
}

func TestUnlimitedHonoursCancellation(t *testing.T) {
	var l Limiter = Unlimited{}
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("Wait() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}
