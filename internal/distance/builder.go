// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

// Package distance builds the directed stop-to-stop cost matrix from the
// directions service.
package distance

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/maps"
	"github.com/tomtom215/doorknock/internal/metrics"
	"github.com/tomtom215/doorknock/internal/models"
)

// Stats summarises one matrix build.
type Stats struct {
	Calls       int           `json:"calls"`
	Unreachable int           `json:"unreachable"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// Builder fills a Matrix with one directions call per ordered pair.
type Builder struct {
	directions maps.Directions
}

// NewBuilder creates a builder over a directions service. Throttling is the
// service's concern.
func NewBuilder(directions maps.Directions) *Builder {
	return &Builder{directions: directions}
}

// Build returns the n×n matrix for stops. It makes exactly n×(n−1) calls in
// row-major order and none for the diagonal. A failed pair becomes +Inf and
// the build continues; only context cancellation aborts it.
func (b *Builder) Build(ctx context.Context, stops []models.Coordinate) (Matrix, Stats, error) {
	start := time.Now()
	n := len(stops)
	m := NewMatrix(n)
	var stats Stats

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}

			stats.Calls++
			cost, err := b.directions.Cost(ctx, stops[i], stops[j])
			if err == nil && (math.IsNaN(cost) || cost < 0) {
				err = &maps.StatusError{Service: maps.ServiceDirections, Status: "INVALID_COST", Kind: maps.ErrProviderError}
			}
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, stats, err
				}
				m[i][j] = math.Inf(1)
				stats.Unreachable++
				metrics.MatrixUnreachableCells.Inc()
				logging.Ctx(ctx).Warn().Err(err).
					Int("from", i).
					Int("to", j).
					Str("origin", stops[i].String()).
					Str("destination", stops[j].String()).
					Msg("Distance lookup failed, marking pair unreachable")
				continue
			}
			m[i][j] = cost
		}
	}

	stats.Elapsed = time.Since(start)
	logging.Ctx(ctx).Info().
		Int("stops", n).
		Int("calls", stats.Calls).
		Int("unreachable", stats.Unreachable).
		Dur("elapsed", stats.Elapsed).
		Msg("Distance matrix built")
	return m, stats, nil
}
