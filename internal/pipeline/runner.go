// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package pipeline

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/maps"
)

// Runner plans every input over freshly built breakers and lookup cache, so
// one run's failures and results never change the outcome of the next. Runs
// share only the base service and its throttle.
type Runner struct {
	base     maps.Service
	cfg      *config.Config
	lastOpen atomic.Pointer[[]string]
}

// NewRunner creates a runner over the unwrapped maps client.
func NewRunner(base maps.Service, cfg *config.Config) *Runner {
	return &Runner{base: base, cfg: cfg}
}

// Plan parses addresses from r and runs one independent pipeline.
func (r *Runner) Plan(ctx context.Context, rd io.Reader, reporter Reporter) (*Plan, error) {
	svc := maps.NewService(r.base, &r.cfg.Breaker)
	breakers, _ := svc.(*maps.CircuitBreakerClient)

	var lookups *maps.CachingService
	if r.cfg.Cache.Enabled {
		lookups = maps.NewCachingService(svc, &r.cfg.Cache)
		svc = lookups
	}

	plan, err := NewFromConfig(svc, r.cfg).Plan(ctx, rd, reporter)

	log := logging.Ctx(ctx)
	if plan != nil {
		log = logging.Ctx(logging.ContextWithPlanID(ctx, plan.ID))
	}
	if lookups != nil {
		hits, misses := lookups.Stats()
		log.Debug().Int64("hits", hits).Int64("misses", misses).Msg("Lookup cache")
	}
	var open []string
	if breakers != nil {
		open = breakers.OpenCircuits()
	}
	if len(open) > 0 {
		log.Warn().Strs("services", open).Msg("Run ended with open circuits")
	}
	r.lastOpen.Store(&open)

	return plan, err
}

// OpenCircuits lists the services whose breaker was open when the most
// recent run finished. It only feeds readiness; runs never consult it.
func (r *Runner) OpenCircuits() []string {
	if open := r.lastOpen.Load(); open != nil {
		return *open
	}
	return nil
}
