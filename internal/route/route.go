// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

// Package route orders stops into a tour over a directed cost matrix.
//
// The tour always starts at index 0, the first address in the input. For a
// round trip it also ends there. Arcs with cost +Inf are unreachable and are
// never part of a returned tour.
//
// Inputs up to the configured exact limit are solved to optimality with the
// Held-Karp dynamic program. Larger inputs use a path-cheapest-arc
// construction followed by directed 2-opt and Or-opt local search.
package route

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidMatrix is returned for non-square matrices, non-zero
	// diagonals, and NaN or negative costs.
	ErrInvalidMatrix = errors.New("invalid cost matrix")

	// ErrNoSolution is returned when no tour with finite cost visits every stop.
	ErrNoSolution = errors.New("no route visits every stop")
)

// Route is a sequenced tour.
//
// Order lists matrix indices in visit order. It starts with 0 and, when
// RoundTrip is set, ends with 0 again.
type Route struct {
	Order     []int   `json:"order"`
	Cost      float64 `json:"cost"`
	RoundTrip bool    `json:"round_trip"`
	Strategy  string  `json:"strategy"`
}

// Sequencer turns a cost matrix into a tour.
type Sequencer interface {
	Sequence(ctx context.Context, costs [][]float64) (Route, error)
}

// TourCost sums the arc costs along order. Any +Inf arc yields +Inf.
func TourCost(costs [][]float64, order []int) float64 {
	total := 0.0
	for i := 1; i < len(order); i++ {
		total += costs[order[i-1]][order[i]]
	}
	return total
}

func validate(costs [][]float64) error {
	n := len(costs)
	for i, row := range costs {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidMatrix, i, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || v < 0 {
				return fmt.Errorf("%w: cost %v at [%d][%d]", ErrInvalidMatrix, v, i, j)
			}
			if i == j && v != 0 {
				return fmt.Errorf("%w: non-zero diagonal %v at [%d][%d]", ErrInvalidMatrix, v, i, i)
			}
		}
	}
	return nil
}

// checkFeasible rejects matrices where some stop cannot be entered or left.
// For an open tour the final stop need not be left and the depot need not be
// entered, so at most one non-depot stop may lack an outgoing arc.
func checkFeasible(costs [][]float64, roundTrip bool) error {
	n := len(costs)
	deadEnds := 0
	for i := 0; i < n; i++ {
		hasOut, hasIn := false, false
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if !math.IsInf(costs[i][j], 1) {
				hasOut = true
			}
			if !math.IsInf(costs[j][i], 1) {
				hasIn = true
			}
		}

		if !hasIn && (roundTrip || i != 0) {
			return fmt.Errorf("%w: stop %d cannot be reached from any other stop", ErrNoSolution, i)
		}
		if !hasOut {
			if roundTrip || i == 0 {
				return fmt.Errorf("%w: no stop can be reached from stop %d", ErrNoSolution, i)
			}
			deadEnds++
		}
	}
	if deadEnds > 1 {
		return fmt.Errorf("%w: %d stops have no outgoing route", ErrNoSolution, deadEnds)
	}
	return nil
}
