// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package render

import (
	"strings"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/models"
)

// NavigationURL builds a turn-by-turn link that visits coords in order:
//
//	<base>/<lat1,lng1>/<lat2,lng2>/.../<latN,lngN>
//
// A trailing slash on base is ignored and an empty base uses Google Maps.
func NavigationURL(base string, coords []models.Coordinate, order []int) string {
	if base == "" {
		base = config.DefaultNavigationURL
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, idx := range order {
		b.WriteByte('/')
		b.WriteString(coords[idx].String())
	}
	return b.String()
}
