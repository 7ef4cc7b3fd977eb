// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package render

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature kinds, stored in the "kind" property.
const (
	KindStop     = "stop"
	KindSkipped  = "skipped"
	KindLandmark = "landmark"
	KindZone     = "zone"
	KindRoute    = "route"
)

// GeoJSON returns the map as a feature collection. Properties follow the
// simplestyle conventions ("marker-color", "stroke", "fill") so the output
// renders in common viewers without styling.
func (r *Renderer) GeoJSON(m *Map) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	colors := categoryColors(m)

	for _, z := range m.Zones {
		f := geojson.NewFeature(z.Polygon())
		f.Properties["kind"] = KindZone
		f.Properties["category"] = z.Category
		f.Properties["fill"] = colors[z.Category]
		f.Properties["fill-opacity"] = 0.15
		f.Properties["stroke"] = colors[z.Category]
		fc.Append(f)
	}

	for i, c := range r.legColors(m.Legs()) {
		from, to := m.Ordered[i], m.Ordered[i+1]
		f := geojson.NewFeature(orb.LineString{from.Location.Point(), to.Location.Point()})
		f.Properties["kind"] = KindRoute
		f.Properties["leg"] = i + 1
		f.Properties["from"] = from.Address
		f.Properties["to"] = to.Address
		f.Properties["stroke"] = hexColor(c)
		f.Properties["stroke-width"] = 4
		fc.Append(f)
	}

	for _, l := range m.Landmarks {
		f := geojson.NewFeature(l.Location.Point())
		f.Properties["kind"] = KindLandmark
		f.Properties["name"] = l.Name
		f.Properties["category"] = l.Category
		f.Properties["marker-color"] = colors[l.Category]
		fc.Append(f)
	}

	for _, s := range m.Skipped {
		if s.Location == nil {
			continue
		}
		f := geojson.NewFeature(s.Location.Point())
		f.Properties["kind"] = KindSkipped
		f.Properties["address"] = s.Address
		f.Properties["reason"] = string(s.Reason)
		f.Properties["category"] = s.Category
		f.Properties["marker-color"] = colorSkipped
		fc.Append(f)
	}

	for visit, s := range m.visits() {
		f := geojson.NewFeature(s.Location.Point())
		f.Properties["kind"] = KindStop
		f.Properties["address"] = s.Address
		f.Properties["index"] = s.Index
		f.Properties["visit"] = visit + 1
		f.Properties["marker-color"] = colorStop
		if visit == 0 {
			f.Properties["marker-color"] = colorStart
		}
		fc.Append(f)
	}

	return fc
}

// WriteGeoJSON writes the feature collection to w.
func (r *Renderer) WriteGeoJSON(w io.Writer, m *Map) error {
	data, err := r.GeoJSON(m).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	_, err = w.Write(data)
	return err
}
