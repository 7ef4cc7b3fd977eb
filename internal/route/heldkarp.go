// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package route

import (
	"context"
	"math"
)

// heldKarp solves the tour exactly.
//
// dp[mask][j] is the cheapest path that leaves 0, visits the set mask of
// non-depot stops and ends at j. Bit k-1 of mask stands for stop k.
func (s *Solver) heldKarp(ctx context.Context, costs [][]float64) ([]int, error) {
	n := len(costs)
	m := n - 1
	full := 1<<m - 1
	inf := math.Inf(1)

	dp := make([]float64, (full+1)*m)
	parent := make([]int, (full+1)*m)
	for i := range dp {
		dp[i] = inf
		parent[i] = -1
	}
	for j := 1; j < n; j++ {
		dp[(1<<(j-1))*m+(j-1)] = costs[0][j]
	}

	for mask := 1; mask <= full; mask++ {
		if mask&0xff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for j := 1; j < n; j++ {
			bit := 1 << (j - 1)
			if mask&bit == 0 {
				continue
			}
			cur := dp[mask*m+(j-1)]
			if math.IsInf(cur, 1) {
				continue
			}
			for k := 1; k < n; k++ {
				kbit := 1 << (k - 1)
				if mask&kbit != 0 {
					continue
				}
				next := mask | kbit
				if c := cur + costs[j][k]; c < dp[next*m+(k-1)] {
					dp[next*m+(k-1)] = c
					parent[next*m+(k-1)] = j
				}
			}
		}
	}

	best, last := inf, -1
	for j := 1; j < n; j++ {
		if c := dp[full*m+(j-1)] + s.closing(costs, j); c < best {
			best, last = c, j
		}
	}
	if last < 0 {
		return nil, ErrNoSolution
	}

	order := make([]int, n)
	mask := full
	for pos := n - 1; pos > 0; pos-- {
		order[pos] = last
		prev := parent[mask*m+(last-1)]
		mask &^= 1 << (last - 1)
		last = prev
	}
	order[0] = 0
	return order, nil
}
