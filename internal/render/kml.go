// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package render

import (
	"fmt"
	"image/color"
	"io"

	kml "github.com/twpayne/go-kml"

	"github.com/tomtom215/doorknock/internal/models"
)

// KML builds a KML document with folders for the route legs, stops,
// landmarks and avoid zones. Each leg has its own shared style coloured along
// the leg gradient so the direction of travel is visible.
func (r *Renderer) KML(m *Map) *kml.CompoundElement {
	doc := kml.Document(kml.Name(m.title()))
	colors := categoryColors(m)

	legColors := r.legColors(m.Legs())
	for i, c := range legColors {
		doc.Add(kml.SharedStyle(legStyleID(i), kml.LineStyle(kml.Width(4), kml.Color(c))))
	}
	for _, category := range sortedKeys(colors) {
		c := parseHex(colors[category])
		doc.Add(kml.SharedStyle("landmark-"+category,
			kml.IconStyle(kml.Color(c)),
		))
		doc.Add(kml.SharedStyle("zone-"+category,
			kml.LineStyle(kml.Width(2), kml.Color(c)),
			kml.PolyStyle(kml.Color(withAlpha(c, 0x40))),
		))
	}
	doc.Add(kml.SharedStyle("stop-start", kml.IconStyle(kml.Color(parseHex(colorStart)))))
	doc.Add(kml.SharedStyle("stop", kml.IconStyle(kml.Color(parseHex(colorStop)))))
	doc.Add(kml.SharedStyle("skipped", kml.IconStyle(kml.Color(parseHex(colorSkipped)))))

	route := kml.Folder(kml.Name("Route"))
	for i := range legColors {
		from, to := m.Ordered[i], m.Ordered[i+1]
		route.Add(kml.Placemark(
			kml.Name(fmt.Sprintf("Leg %d", i+1)),
			kml.Description(from.Address+" → "+to.Address),
			kml.StyleURL("#"+legStyleID(i)),
			kml.LineString(kml.Coordinates(coordinate(from.Location), coordinate(to.Location))),
		))
	}
	doc.Add(route)

	stops := kml.Folder(kml.Name("Stops"))
	for visit, s := range m.visits() {
		style := "#stop"
		if visit == 0 {
			style = "#stop-start"
		}
		stops.Add(kml.Placemark(
			kml.Name(fmt.Sprintf("%d. %s", visit+1, s.Address)),
			kml.StyleURL(style),
			kml.Point(kml.Coordinates(coordinate(s.Location))),
		))
	}
	doc.Add(stops)

	if skipped := skippedPlacemarks(m.Skipped); len(skipped) > 0 {
		doc.Add(kml.Folder(append([]kml.Element{kml.Name("Skipped")}, skipped...)...))
	}

	if len(m.Landmarks) > 0 {
		landmarks := kml.Folder(kml.Name("Landmarks"))
		for _, l := range m.Landmarks {
			landmarks.Add(kml.Placemark(
				kml.Name(l.Name),
				kml.Description(l.Category),
				kml.StyleURL("#landmark-"+l.Category),
				kml.Point(kml.Coordinates(coordinate(l.Location))),
			))
		}
		doc.Add(landmarks)
	}

	if len(m.Zones) > 0 {
		zones := kml.Folder(kml.Name("Avoid zones"))
		for _, z := range m.Zones {
			ring := z.Polygon()[0]
			coords := make([]kml.Coordinate, 0, len(ring))
			for _, p := range ring {
				coords = append(coords, kml.Coordinate{Lon: p.Lon(), Lat: p.Lat()})
			}
			zones.Add(kml.Placemark(
				kml.Name(z.Category),
				kml.StyleURL("#zone-"+z.Category),
				kml.Polygon(kml.OuterBoundaryIs(kml.LinearRing(kml.Coordinates(coords...)))),
			))
		}
		doc.Add(zones)
	}

	return kml.KML(doc)
}

// WriteKML writes the KML document to w.
func (r *Renderer) WriteKML(w io.Writer, m *Map) error {
	if err := r.KML(m).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to encode kml: %w", err)
	}
	return nil
}

func skippedPlacemarks(skipped []models.SkippedAddress) []kml.Element {
	var out []kml.Element
	for _, s := range skipped {
		if s.Location == nil {
			continue
		}
		out = append(out, kml.Placemark(
			kml.Name(s.Address),
			kml.Description(s.String()),
			kml.StyleURL("#skipped"),
			kml.Point(kml.Coordinates(coordinate(*s.Location))),
		))
	}
	return out
}

func legStyleID(i int) string {
	return fmt.Sprintf("leg-%d", i)
}

func coordinate(c models.Coordinate) kml.Coordinate {
	return kml.Coordinate{Lon: c.Lng, Lat: c.Lat}
}

// parseHex parses #rrggbb. Malformed input yields opaque black.
func parseHex(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
