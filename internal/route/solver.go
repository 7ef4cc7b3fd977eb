// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package route

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/metrics"
)

// Strategy names reported on Route and in metrics.
const (
	StrategyExact     = "exact"
	StrategyHeuristic = "heuristic"
)

// MaxExactLimit bounds ExactLimit; Held-Karp needs O(2^n·n) memory.
const MaxExactLimit = 16

// Solver is the default Sequencer.
type Solver struct {
	roundTrip  bool
	exactLimit int
	maxPasses  int
}

// NewSolver creates a solver from routing configuration.
func NewSolver(cfg *config.RoutingConfig) *Solver {
	limit := cfg.ExactLimit
	if limit > MaxExactLimit {
		limit = MaxExactLimit
	}
	passes := cfg.MaxPasses
	if passes < 0 {
		passes = 0
	}
	return &Solver{
		roundTrip:  cfg.RoundTrip,
		exactLimit: limit,
		maxPasses:  passes,
	}
}

// Sequence returns a tour that starts at 0 and visits every index once.
func (s *Solver) Sequence(ctx context.Context, costs [][]float64) (Route, error) {
	if err := validate(costs); err != nil {
		return Route{}, err
	}
	n := len(costs)
	if n < 2 {
		return Route{}, fmt.Errorf("%w: need at least 2 stops, got %d", ErrNoSolution, n)
	}
	if err := checkFeasible(costs, s.roundTrip); err != nil {
		return Route{}, err
	}

	strategy := StrategyHeuristic
	if n <= s.exactLimit {
		strategy = StrategyExact
	}

	start := time.Now()
	var (
		order []int
		err   error
	)
	if strategy == StrategyExact {
		order, err = s.heldKarp(ctx, costs)
	} else {
		order, err = s.heuristic(ctx, costs)
	}
	metrics.SequencerDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
	if err != nil {
		return Route{}, err
	}

	cost := s.cost(costs, order)
	if math.IsInf(cost, 1) {
		return Route{}, fmt.Errorf("%w: best tour found uses an unreachable leg", ErrNoSolution)
	}
	if s.roundTrip {
		order = append(order, 0)
	}

	logging.Ctx(ctx).Debug().
		Int("stops", n).
		Str("strategy", strategy).
		Float64("cost", cost).
		Dur("elapsed", time.Since(start)).
		Msg("Route sequenced")

	return Route{Order: order, Cost: cost, RoundTrip: s.roundTrip, Strategy: strategy}, nil
}

// cost of a visit order without the trailing depot. Open tours do not pay
// for the return leg.
func (s *Solver) cost(costs [][]float64, order []int) float64 {
	total := TourCost(costs, order)
	if s.roundTrip {
		total += costs[order[len(order)-1]][0]
	}
	return total
}

func (s *Solver) closing(costs [][]float64, last int) float64 {
	if s.roundTrip {
		return costs[last][0]
	}
	return 0
}
