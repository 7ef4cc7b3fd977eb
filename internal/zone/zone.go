// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

// Package zone builds avoid-zone polygons from landmark positions and tests
// whether a stop falls inside one.
//
// A zone is the convex hull of the landmarks of one category found around a
// stop. Points on the hull boundary count as inside.
package zone

import (
	"sort"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/tomtom215/doorknock/internal/models"
)

// MinLandmarks is the fewest landmarks that can enclose an area.
const MinLandmarks = 3

// Zone is an avoid-zone polygon for one landmark category.
type Zone struct {
	Category  string
	Landmarks []models.Landmark
	polygon   orb.Polygon
}

// Build returns the zone spanned by landmarks. It reports false when fewer
// than MinLandmarks are given or when they are collinear, in which case no
// exclusion applies.
func Build(category string, landmarks []models.Landmark) (*Zone, bool) {
	if len(landmarks) < MinLandmarks {
		return nil, false
	}

	points := make([]orb.Point, 0, len(landmarks))
	for _, l := range landmarks {
		points = append(points, l.Location.Point())
	}

	hull := ConvexHull(points)
	if len(hull) < MinLandmarks {
		return nil, false
	}

	ring := make(orb.Ring, 0, len(hull)+1)
	ring = append(ring, hull...)
	ring = append(ring, hull[0])

	return &Zone{
		Category:  category,
		Landmarks: landmarks,
		polygon:   orb.Polygon{ring},
	}, true
}

// Contains reports whether c lies inside the zone or on its boundary.
func (z *Zone) Contains(c models.Coordinate) bool {
	if z == nil {
		return false
	}
	return planar.PolygonContains(z.polygon, c.Point())
}

// Polygon returns the zone outline as a closed ring, counter-clockwise.
func (z *Zone) Polygon() orb.Polygon {
	return z.polygon
}

// MarshalJSON includes the outline, which is otherwise unexported.
func (z *Zone) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category  string            `json:"category"`
		Landmarks []models.Landmark `json:"landmarks"`
		Polygon   orb.Polygon       `json:"polygon"`
	}{z.Category, z.Landmarks, z.polygon})
}

// Bound returns the zone's bounding box.
func (z *Zone) Bound() orb.Bound {
	return z.polygon.Bound()
}

// ConvexHull returns the hull vertices of points in counter-clockwise order
// without repeating the first vertex. Duplicate and collinear points are
// dropped. It uses Andrew's monotone chain and does not modify points.
func ConvexHull(points []orb.Point) []orb.Point {
	pts := make([]orb.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	hull := make([]orb.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// cross is the z component of (a→b) × (a→c); positive for a left turn.
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}
