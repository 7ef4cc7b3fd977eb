// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package distance

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMatrix is returned by Validate.
var ErrInvalidMatrix = errors.New("invalid distance matrix")

// Matrix holds directed travel costs: Matrix[i][j] is the cost from stop i to
// stop j. The diagonal is zero and +Inf marks an unreachable pair. The matrix
// need not be symmetric.
type Matrix [][]float64

// NewMatrix returns an n×n zero matrix.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// Size returns the number of stops.
func (m Matrix) Size() int {
	return len(m)
}

// Validate checks shape and values: square, zero diagonal, no NaN or
// negative entries.
func (m Matrix) Validate() error {
	n := len(m)
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidMatrix, i, len(row), n)
		}
		for j, v := range row {
			switch {
			case math.IsNaN(v):
				return fmt.Errorf("%w: NaN at [%d][%d]", ErrInvalidMatrix, i, j)
			case v < 0:
				return fmt.Errorf("%w: negative cost %v at [%d][%d]", ErrInvalidMatrix, v, i, j)
			case i == j && v != 0:
				return fmt.Errorf("%w: non-zero diagonal %v at [%d][%d]", ErrInvalidMatrix, v, i, i)
			}
		}
	}
	return nil
}

// Unreachable counts off-diagonal +Inf cells.
func (m Matrix) Unreachable() int {
	count := 0
	for i, row := range m {
		for j, v := range row {
			if i != j && math.IsInf(v, 1) {
				count++
			}
		}
	}
	return count
}
