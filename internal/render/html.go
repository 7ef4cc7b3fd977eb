// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/paulmach/orb/geojson"

	"github.com/tomtom215/doorknock/internal/models"
)

var pageTemplate = template.Must(template.New("route").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; display: flex; height: 100vh; }
  #map { flex: 1; }
  aside { width: 22rem; overflow-y: auto; padding: 1rem; box-sizing: border-box; }
  aside ol { padding-left: 1.5rem; }
  .skipped { color: #d73027; }
</style>
</head>
<body>
<div id="map"></div>
<aside>
  <h1>{{.Title}}</h1>
  {{if .NavigationURL}}<p><a href="{{.NavigationURL}}" target="_blank" rel="noopener">Open turn-by-turn navigation</a></p>{{end}}
  <h2>Stops</h2>
  <ol>
  {{range .Visits}}<li>{{.Address}}</li>
  {{end}}</ol>
  {{if .Skipped}}<h2>Skipped</h2>
  <ul class="skipped">
  {{range .Skipped}}<li>{{.String}}</li>
  {{end}}</ul>{{end}}
</aside>
<script>
  var data = {{.GeoJSON}};
  var map = L.map("map");
  L.tileLayer({{.TileURL}}, {maxZoom: 19, attribution: {{.Attribution}}}).addTo(map);
  var layer = L.geoJSON(data, {
    style: function (f) {
      var p = f.properties;
      return {color: p.stroke, weight: p["stroke-width"] || 2, fillColor: p.fill, fillOpacity: p["fill-opacity"] || 0};
    },
    pointToLayer: function (f, latlng) {
      var p = f.properties;
      return L.circleMarker(latlng, {radius: p.kind === "stop" ? 8 : 5, color: p["marker-color"], fillOpacity: 0.9});
    },
    onEachFeature: function (f, l) {
      var p = f.properties;
      var label = p.kind === "stop" ? p.visit + ". " + p.address : (p.address || p.name || p.category);
      if (label) { l.bindTooltip(String(label)); }
    }
  }).addTo(map);
  var bounds = layer.getBounds();
  if (bounds.isValid()) { map.fitBounds(bounds, {padding: [20, 20]}); } else { map.setView([0, 0], 2); }
</script>
</body>
</html>
`))

type pageData struct {
	Title         string
	NavigationURL string
	Visits        []models.Stop
	Skipped       []models.SkippedAddress
	GeoJSON       *geojson.FeatureCollection
	TileURL       string
	Attribution   string
}

// WriteHTML writes a standalone Leaflet page showing the route, the ordered
// address list and the navigation link.
func (r *Renderer) WriteHTML(w io.Writer, m *Map) error {
	data := pageData{
		Title:         m.title(),
		NavigationURL: m.NavigationURL,
		Visits:        m.visits(),
		Skipped:       m.Skipped,
		GeoJSON:       r.GeoJSON(m),
		TileURL:       r.tileURL,
		Attribution:   r.tileAttribution,
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}
