// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package zone

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/tomtom215/doorknock/internal/models"
)

func landmarksAt(category string, coords ...models.Coordinate) []models.Landmark {
	out := make([]models.Landmark, len(coords))
	for i, c := range coords {
		out[i] = models.Landmark{Name: category, Category: category, Location: c}
	}
	return out
}

// square spans lat 0..2, lng 0..2.
func square() []models.Landmark {
	return landmarksAt("cemetery",
		models.Coordinate{Lat: 0, Lng: 0},
		models.Coordinate{Lat: 0, Lng: 2},
		models.Coordinate{Lat: 2, Lng: 2},
		models.Coordinate{Lat: 2, Lng: 0},
		models.Coordinate{Lat: 1, Lng: 1}, // interior, not a hull vertex
	)
}

func TestBuildTooFewLandmarks(t *testing.T) {
	tests := []struct {
		name      string
		landmarks []models.Landmark
	}{
		{"none", nil},
		{"one", landmarksAt("railway", models.Coordinate{Lat: 1, Lng: 1})},
		{"two", landmarksAt("railway", models.Coordinate{Lat: 1, Lng: 1}, models.Coordinate{Lat: 2, Lng: 2})},
		{"collinear", landmarksAt("railway",
			models.Coordinate{Lat: 0, Lng: 0},
			models.Coordinate{Lat: 1, Lng: 1},
			models.Coordinate{Lat: 2, Lng: 2})},
		{"duplicates", landmarksAt("railway",
			models.Coordinate{Lat: 5, Lng: 5},
			models.Coordinate{Lat: 5, Lng: 5},
			models.Coordinate{Lat: 5, Lng: 5})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, ok := Build("railway", tt.landmarks)
			if ok || z != nil {
				t.Errorf("Build() = (%v, %v), want (nil, false)", z, ok)
			}
		})
	}
}

func TestContains(t *testing.T) {
	z, ok := Build("cemetery", square())
	if !ok {
		t.Fatal("Build() returned no zone for a square")
	}

	tests := []struct {
		name string
		at   models.Coordinate
		want bool
	}{
		{"interior", models.Coordinate{Lat: 1, Lng: 1.5}, true},
		{"outside east", models.Coordinate{Lat: 1, Lng: 3}, false},
		{"outside north", models.Coordinate{Lat: 2.5, Lng: 1}, false},
		{"vertex", models.Coordinate{Lat: 0, Lng: 0}, true},
		{"horizontal edge", models.Coordinate{Lat: 0, Lng: 1}, true},
		{"vertical edge", models.Coordinate{Lat: 1, Lng: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := z.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestContainsDiagonalBoundary(t *testing.T) {
	z, ok := Build("railway", landmarksAt("railway",
		models.Coordinate{Lat: 0, Lng: 0},
		models.Coordinate{Lat: 0, Lng: 4},
		models.Coordinate{Lat: 4, Lng: 0},
	))
	if !ok {
		t.Fatal("Build() returned no zone for a triangle")
	}
	if !z.Contains(models.Coordinate{Lat: 2, Lng: 2}) {
		t.Error("point on the hypotenuse should be inside")
	}
	if z.Contains(models.Coordinate{Lat: 2.5, Lng: 2.5}) {
		t.Error("point beyond the hypotenuse should be outside")
	}
}

func TestNilZoneContainsNothing(t *testing.T) {
	var z *Zone
	if z.Contains(models.Coordinate{}) {
		t.Error("nil zone should contain nothing")
	}
}

func TestPolygonIsClosed(t *testing.T) {
	z, _ := Build("cemetery", square())
	ring := z.Polygon()[0]
	if len(ring) != 5 {
		t.Fatalf("ring has %d points, want 5 (4 hull vertices plus closing point)", len(ring))
	}
	if !ring.Closed() {
		t.Error("ring should be closed")
	}
	if ring.Orientation() != orb.CCW {
		t.Errorf("ring orientation = %v, want CCW", ring.Orientation())
	}
}

func TestConvexHull(t *testing.T) {
	points := []orb.Point{{0, 0}, {1, 1}, {2, 0}, {2, 2}, {0, 2}, {1, 0}, {0, 0}}
	hull := ConvexHull(points)

	want := []orb.Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	if len(hull) != len(want) {
		t.Fatalf("ConvexHull() = %v, want %v", hull, want)
	}
	for i := range want {
		if hull[i] != want[i] {
			t.Errorf("hull[%d] = %v, want %v", i, hull[i], want[i])
		}
	}

	if points[1] != (orb.Point{1, 1}) {
		t.Error("ConvexHull() modified its input")
	}
}
