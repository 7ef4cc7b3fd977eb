// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

// Package proximity decides whether a stop sits inside an avoid zone built
// from nearby landmarks such as railways and cemeteries.
package proximity

import (
	"context"
	"errors"
	"strings"

	"github.com/paulmach/orb/geo"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/maps"
	"github.com/tomtom215/doorknock/internal/metrics"
	"github.com/tomtom215/doorknock/internal/models"
	"github.com/tomtom215/doorknock/internal/zone"
)

// Verdict is the outcome of checking one stop.
type Verdict struct {
	// Excluded is true when any category's zone contains the stop.
	Excluded bool

	// Category is the first category whose zone matched.
	Category string

	// Landmarks and Zones found around the stop, for rendering.
	Landmarks []models.Landmark
	Zones     []*zone.Zone
}

// Filter queries landmarks per category and tests zone containment.
type Filter struct {
	places     maps.Places
	categories []string
	radius     int
}

// New creates a filter from configuration.
func New(places maps.Places, cfg *config.ProximityConfig) *Filter {
	categories := make([]string, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	return &Filter{places: places, categories: categories, radius: cfg.RadiusMeters}
}

// Categories returns the landmark categories checked, in order.
func (f *Filter) Categories() []string {
	return f.categories
}

// Check looks up every category around at. A failed lookup is logged and
// that category is treated as having no landmarks. Only context errors are
// returned.
func (f *Filter) Check(ctx context.Context, at models.Coordinate) (Verdict, error) {
	var v Verdict

	for _, category := range f.categories {
		landmarks, err := f.places.Nearby(ctx, at, category, f.radius)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Verdict{}, ctxErr
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Verdict{}, err
			}
			metrics.LandmarkLookupFailures.WithLabelValues(category).Inc()
			logging.Ctx(ctx).Warn().Err(err).
				Str("category", category).
				Str("location", at.String()).
				Msg("Landmark lookup failed, treating category as empty")
			continue
		}

		v.Landmarks = append(v.Landmarks, landmarks...)

		z, ok := zone.Build(category, landmarks)
		if !ok {
			logging.Ctx(ctx).Debug().
				Str("category", category).
				Int("landmarks", len(landmarks)).
				Msg("Too few landmarks for an avoid zone")
			continue
		}
		v.Zones = append(v.Zones, z)

		if !v.Excluded && z.Contains(at) {
			v.Excluded = true
			v.Category = category
			logging.Ctx(ctx).Debug().
				Str("category", category).
				Float64("nearest_landmark_m", nearest(at, landmarks)).
				Msg("Stop inside avoid zone")
		}
	}

	return v, nil
}

// nearest is the geodesic distance in meters from at to the closest landmark.
func nearest(at models.Coordinate, landmarks []models.Landmark) float64 {
	best := -1.0
	for _, l := range landmarks {
		d := geo.Distance(at.Point(), l.Location.Point())
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}
