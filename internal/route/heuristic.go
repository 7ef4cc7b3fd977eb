// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package route

import (
	"context"
	"fmt"
	"math"

	"github.com/tomtom215/doorknock/internal/logging"
)

// improvementEpsilon ignores floating-point noise between equal tours.
const improvementEpsilon = 1e-9

// heuristic constructs and improves a tour. When construction gets stuck or
// the improved tour still uses an unreachable leg, it falls back to search.
func (s *Solver) heuristic(ctx context.Context, costs [][]float64) ([]int, error) {
	if order, err := cheapestArc(costs); err == nil {
		order, err = s.improve(ctx, costs, order)
		if err != nil {
			return nil, err
		}
		if !math.IsInf(s.cost(costs, order), 1) {
			return order, nil
		}
	}

	logging.Ctx(ctx).Debug().Int("stops", len(costs)).Msg("Construction found no finite tour, searching")
	order, err := s.search(ctx, costs)
	if err != nil {
		return nil, err
	}
	return s.improve(ctx, costs, order)
}

// cheapestArc grows a path from the depot, always taking the cheapest finite
// arc out of the current end. Ties go to the lowest index. When the end has
// no finite arc to an unvisited stop, the cheapest feasible insertion of any
// unvisited stop elsewhere in the path is used instead.
func cheapestArc(costs [][]float64) ([]int, error) {
	n := len(costs)
	order := make([]int, 1, n)
	visited := make([]bool, n)
	visited[0] = true

	for len(order) < n {
		last := order[len(order)-1]
		next, best := -1, math.Inf(1)
		for k := 0; k < n; k++ {
			if !visited[k] && costs[last][k] < best {
				next, best = k, costs[last][k]
			}
		}
		if next >= 0 {
			order = append(order, next)
			visited[next] = true
			continue
		}

		node, pos := cheapestInsertion(costs, order, visited)
		if node < 0 {
			return nil, fmt.Errorf("%w: construction stuck after %d of %d stops", ErrNoSolution, len(order), n)
		}
		order = append(order, 0)
		copy(order[pos+1:], order[pos:])
		order[pos] = node
		visited[node] = true
	}
	return order, nil
}

// cheapestInsertion finds the unvisited stop and interior position with the
// smallest finite added cost. pos is the index the stop will occupy.
func cheapestInsertion(costs [][]float64, order []int, visited []bool) (node, pos int) {
	node, pos = -1, -1
	best := math.Inf(1)
	for k := range costs {
		if visited[k] {
			continue
		}
		for p := 1; p < len(order); p++ {
			a, b := order[p-1], order[p]
			delta := costs[a][k] + costs[k][b] - costs[a][b]
			if costs[a][k] < math.Inf(1) && costs[k][b] < math.Inf(1) && delta < best {
				node, pos, best = k, p, delta
			}
		}
	}
	return node, pos
}

// improve runs local search passes until a pass finds nothing or the pass
// budget runs out. Every candidate is scored on its full directed cost, so
// reversed segments are priced in their new direction.
func (s *Solver) improve(ctx context.Context, costs [][]float64, order []int) ([]int, error) {
	current := s.cost(costs, order)
	scratch := make([]int, len(order))

	for pass := 0; pass < s.maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var moved, relocated bool
		current, moved = s.twoOpt(costs, order, scratch, current)
		current, relocated = s.orOpt(costs, order, scratch, current)
		if !moved && !relocated {
			break
		}
	}
	return order, nil
}

func better(candidate, current float64) bool {
	if math.IsInf(candidate, 1) {
		return false
	}
	return math.IsInf(current, 1) || candidate < current-improvementEpsilon
}

// twoOpt sweeps every segment order[i..j] once, keeping each reversal that
// lowers the cost.
func (s *Solver) twoOpt(costs [][]float64, order, scratch []int, current float64) (float64, bool) {
	n := len(order)
	improved := false
	for i := 1; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			copy(scratch, order)
			reverse(scratch[i : j+1])
			if c := s.cost(costs, scratch); better(c, current) {
				copy(order, scratch)
				current = c
				improved = true
			}
		}
	}
	return current, improved
}

// orOpt sweeps every single-stop relocation once, keeping each move that
// lowers the cost.
func (s *Solver) orOpt(costs [][]float64, order, scratch []int, current float64) (float64, bool) {
	n := len(order)
	improved := false
	for i := 1; i < n; i++ {
		for p := 1; p < n; p++ {
			if p == i {
				continue
			}
			relocate(scratch, order, i, p)
			if c := s.cost(costs, scratch); better(c, current) {
				copy(order, scratch)
				current = c
				improved = true
			}
		}
	}
	return current, improved
}

// relocate writes src into dst with the element at from moved to index to.
func relocate(dst, src []int, from, to int) {
	node := src[from]
	k := 0
	for i, v := range src {
		if i == from {
			continue
		}
		if k == to {
			dst[k] = node
			k++
		}
		dst[k] = v
		k++
	}
	if k == to {
		dst[k] = node
	}
}

func reverse(a []int) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}
