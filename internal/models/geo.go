// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package models

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// Coordinate is a WGS-84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate is finite and inside the WGS-84 range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Point converts to an orb.Point, which stores longitude first.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// CoordinateFromPoint converts an orb.Point back to a Coordinate.
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lng: p.Lon()}
}

// String renders "lat,lng" with the shortest exact decimal form, the format
// the maps web services accept for location parameters.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// Landmark is a point of interest returned by the places provider.
type Landmark struct {
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Location Coordinate `json:"location"`
}

// Stop is an address that geocoded and survived filtering. Index is its
// position in the valid-address list and therefore its matrix row.
type Stop struct {
	Index    int        `json:"index"`
	Address  string     `json:"address"`
	Line     int        `json:"line"`
	Location Coordinate `json:"location"`
}

// SkipReason says why an input address is absent from the route.
type SkipReason string

// Skip reasons.
const (
	SkipGeocodeFailed SkipReason = "geocode_failed"
	SkipAvoidZone     SkipReason = "avoid_zone"
)

// SkippedAddress records an input address dropped before the matrix stage.
type SkippedAddress struct {
	Address  string      `json:"address"`
	Line     int         `json:"line"`
	Reason   SkipReason  `json:"reason"`
	Category string      `json:"category,omitempty"`
	Detail   string      `json:"detail,omitempty"`
	Location *Coordinate `json:"location,omitempty"`
}

// String implements fmt.Stringer for progress output.
func (s SkippedAddress) String() string {
	switch s.Reason {
	case SkipAvoidZone:
		return fmt.Sprintf("%s: inside %s avoid zone", s.Address, s.Category)
	case SkipGeocodeFailed:
		return fmt.Sprintf("%s: geocoding failed (%s)", s.Address, s.Detail)
	default:
		return fmt.Sprintf("%s: %s", s.Address, s.Reason)
	}
}
