// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package route

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// SearchBudget caps the arcs the fallback search may try before giving up.
const SearchBudget = 2_000_000

// errSearchExhausted stops the recursion once the budget is spent.
var errSearchExhausted = fmt.Errorf("%w: no finite tour found within %d search steps", ErrNoSolution, SearchBudget)

// search is a depth-first walk over finite arcs from the depot, trying the
// cheapest arc first. It returns the first order that visits every stop with
// a finite cost, including the closing leg for round trips.
func (s *Solver) search(ctx context.Context, costs [][]float64) ([]int, error) {
	n := len(costs)
	next := make([][]int, n)
	for i := range costs {
		for j := 1; j < n; j++ {
			if i != j && !math.IsInf(costs[i][j], 1) {
				next[i] = append(next[i], j)
			}
		}
		row := costs[i]
		sort.SliceStable(next[i], func(a, b int) bool { return row[next[i][a]] < row[next[i][b]] })
	}

	order := make([]int, 1, n)
	visited := make([]bool, n)
	visited[0] = true
	steps := 0

	var walk func(last int) (bool, error)
	walk = func(last int) (bool, error) {
		if len(order) == n {
			return !s.roundTrip || !math.IsInf(costs[last][0], 1), nil
		}
		for _, k := range next[last] {
			if visited[k] {
				continue
			}
			if steps++; steps > SearchBudget {
				return false, errSearchExhausted
			}
			if steps%4096 == 0 {
				if err := ctx.Err(); err != nil {
					return false, err
				}
			}
			visited[k] = true
			order = append(order, k)
			if ok, err := walk(k); ok || err != nil {
				return ok, err
			}
			order = order[:len(order)-1]
			visited[k] = false
		}
		return false, nil
	}

	ok, err := walk(0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no finite tour exists", ErrNoSolution)
	}
	return order, nil
}
