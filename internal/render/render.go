// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

// Package render turns a finished plan into map artifacts: GeoJSON, KML and
// a self-contained Leaflet HTML page, plus the navigation link.
//
// Rendering never changes the route; it only reads the Map it is given.
package render

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/mazznoer/colorgrad"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/models"
	"github.com/tomtom215/doorknock/internal/zone"
)

// Map is everything a renderer draws.
type Map struct {
	Title         string
	Ordered       []models.Stop // visit order; ends with the first stop again on round trips
	Skipped       []models.SkippedAddress
	Landmarks     []models.Landmark
	Zones         []*zone.Zone
	NavigationURL string
	RoundTrip     bool
}

func (m *Map) title() string {
	if m.Title != "" {
		return m.Title
	}
	return "Door-to-door route"
}

// Legs returns the number of route segments drawn.
func (m *Map) Legs() int {
	if len(m.Ordered) < 2 {
		return 0
	}
	return len(m.Ordered) - 1
}

// visits is Ordered without the return to the start.
func (m *Map) visits() []models.Stop {
	if m.RoundTrip && len(m.Ordered) > 1 {
		return m.Ordered[:len(m.Ordered)-1]
	}
	return m.Ordered
}

// Renderer holds presentation settings shared by all formats.
type Renderer struct {
	tileURL         string
	tileAttribution string
	gradient        colorgrad.Gradient
}

// New creates a renderer from output configuration.
func New(cfg *config.OutputConfig) (*Renderer, error) {
	grad, err := colorgrad.NewGradient().HtmlColors(cfg.LegGradientStart, cfg.LegGradientEnd).Build()
	if err != nil {
		return nil, fmt.Errorf("invalid leg gradient %q → %q: %w", cfg.LegGradientStart, cfg.LegGradientEnd, err)
	}
	return &Renderer{
		tileURL:         cfg.TileURL,
		tileAttribution: cfg.TileAttribution,
		gradient:        grad,
	}, nil
}

// legColors returns one colour per leg, from the gradient start to its end.
func (r *Renderer) legColors(legs int) []color.Color {
	if legs < 1 {
		return nil
	}
	n := legs
	if n < 2 {
		n = 2
	}
	return r.gradient.Colors(uint(n))[:legs]
}

// categoryPalette colours landmarks and zones. Categories beyond its length wrap.
var categoryPalette = []string{
	"#7b3294", // purple
	"#525252", // grey
	"#2166ac", // blue
	"#b35806", // brown
	"#1b7837", // green
	"#c51b7d", // pink
}

// categoryColors assigns palette entries to categories in sorted order so the
// same category set always gets the same colours.
func categoryColors(m *Map) map[string]string {
	out := make(map[string]string)
	for _, l := range m.Landmarks {
		out[l.Category] = ""
	}
	for _, z := range m.Zones {
		out[z.Category] = ""
	}
	for i, c := range sortedKeys(out) {
		out[c] = categoryPalette[i%len(categoryPalette)]
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// hexColor formats c as #rrggbb.
func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// Stop marker colours.
const (
	colorStart   = "#1a9850"
	colorStop    = "#3182bd"
	colorSkipped = "#d73027"
)
