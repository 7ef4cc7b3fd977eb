// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/maps"
	"github.com/tomtom215/doorknock/internal/models"
	"github.com/tomtom215/doorknock/internal/route"
)

// countingService is a full maps.Service over the test fixtures that counts
// calls per capability. failCosts makes every directions call a provider error.
type countingService struct {
	geocodes, nearby, costs atomic.Int32
	failCosts               atomic.Bool
}

func (s *countingService) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	s.geocodes.Add(1)
	return addresses.Geocode(ctx, address)
}

func (s *countingService) Nearby(ctx context.Context, center models.Coordinate, category string, radius int) ([]models.Landmark, error) {
	s.nearby.Add(1)
	return fakePlaces{}.Nearby(ctx, center, category, radius)
}

func (s *countingService) Cost(ctx context.Context, from, to models.Coordinate) (float64, error) {
	s.costs.Add(1)
	if s.failCosts.Load() {
		return 0, &maps.StatusError{Service: maps.ServiceDirections, Status: "UNKNOWN_ERROR", Kind: maps.ErrProviderError}
	}
	d := fakeDirections{}
	return d.Cost(ctx, from, to)
}

func (s *countingService) snapshot() [3]int32 {
	return [3]int32{s.geocodes.Load(), s.nearby.Load(), s.costs.Load()}
}

func runnerConfig() *config.Config {
	cfg := testConfig()
	cfg.Breaker = config.BreakerConfig{
		Enabled:             true,
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Hour,
		ConsecutiveFailures: 2,
	}
	cfg.Cache = config.CacheConfig{Enabled: true, Size: 100, TTL: time.Hour}
	return cfg
}

const runnerInput = "1 Main St\n2 Oak Ave\n3 Pine Ln\n"

func TestRunnerRunsAreIndependent(t *testing.T) {
	base := &countingService{}
	runner := NewRunner(base, runnerConfig())

	first, err := runner.Plan(context.Background(), strings.NewReader(runnerInput), nil)
	if err != nil {
		t.Fatalf("first Plan() error = %v", err)
	}
	afterFirst := base.snapshot()

	second, err := runner.Plan(context.Background(), strings.NewReader(runnerInput), nil)
	if err != nil {
		t.Fatalf("second Plan() error = %v", err)
	}
	afterSecond := base.snapshot()

	for i, name := range []string{"geocode", "nearby", "cost"} {
		if got, want := afterSecond[i]-afterFirst[i], afterFirst[i]; got != want {
			t.Errorf("%s calls in second run = %d, want %d as in the first", name, got, want)
		}
	}
	if afterFirst[2] != 6 {
		t.Errorf("cost calls per run = %d, want 6", afterFirst[2])
	}
	if first.NavigationURL != second.NavigationURL {
		t.Errorf("NavigationURL differs between runs: %q vs %q", first.NavigationURL, second.NavigationURL)
	}
}

func TestRunnerBreakerStateDoesNotCarryOver(t *testing.T) {
	base := &countingService{}
	runner := NewRunner(base, runnerConfig())

	base.failCosts.Store(true)
	_, err := runner.Plan(context.Background(), strings.NewReader(runnerInput), nil)
	if !errors.Is(err, route.ErrNoSolution) {
		t.Fatalf("failing run error = %v, want route.ErrNoSolution", err)
	}
	if open := runner.OpenCircuits(); len(open) != 1 || open[0] != maps.ServiceDirections {
		t.Errorf("OpenCircuits() = %v, want [%s]", open, maps.ServiceDirections)
	}

	base.failCosts.Store(false)
	before := base.costs.Load()
	plan, err := runner.Plan(context.Background(), strings.NewReader(runnerInput), nil)
	if err != nil {
		t.Fatalf("healthy run error = %v", err)
	}
	if got := base.costs.Load() - before; got != 6 {
		t.Errorf("cost calls in healthy run = %d, want 6", got)
	}
	if plan.Stats.Matrix.Unreachable != 0 {
		t.Errorf("Unreachable = %d, want 0", plan.Stats.Matrix.Unreachable)
	}
	if open := runner.OpenCircuits(); len(open) != 0 {
		t.Errorf("OpenCircuits() after healthy run = %v, want none", open)
	}
}
