// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/models"
	"github.com/tomtom215/doorknock/internal/zone"
)

func TestNavigationURL(t *testing.T) {
	coords := []models.Coordinate{
		{Lat: 40.7128, Lng: -74.006},
		{Lat: 40.73, Lng: -73.9352},
		{Lat: 40.65, Lng: -73.95},
	}
	tests := []struct {
		name  string
		base  string
		order []int
		want  string
	}{
		{
			"round trip",
			"https://www.google.com/maps/dir",
			[]int{0, 2, 1, 0},
			"https://www.google.com/maps/dir/40.7128,-74.006/40.65,-73.95/40.73,-73.9352/40.7128,-74.006",
		},
		{
			"trailing slash",
			"https://www.google.com/maps/dir/",
			[]int{0, 1},
			"https://www.google.com/maps/dir/40.7128,-74.006/40.73,-73.9352",
		},
		{
			"default base",
			"",
			[]int{1, 0},
			config.DefaultNavigationURL + "/40.73,-73.9352/40.7128,-74.006",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NavigationURL(tt.base, coords, tt.order); got != tt.want {
				t.Errorf("NavigationURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(&config.OutputConfig{
		TileURL:          "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		TileAttribution:  "&copy; OpenStreetMap contributors",
		LegGradientStart: "#1a9850",
		LegGradientEnd:   "#d73027",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func testMap(t *testing.T) *Map {
	t.Helper()
	a := models.Stop{Index: 0, Address: "1 Main St", Location: models.Coordinate{Lat: 0, Lng: 0}}
	b := models.Stop{Index: 1, Address: "2 Oak Ave", Location: models.Coordinate{Lat: 0, Lng: 1}}
	c := models.Stop{Index: 2, Address: "3 Elm <Rd>", Location: models.Coordinate{Lat: 1, Lng: 1}}

	landmarks := []models.Landmark{
		{Name: "North Cemetery", Category: "cemetery", Location: models.Coordinate{Lat: 5, Lng: 5}},
		{Name: "East Cemetery", Category: "cemetery", Location: models.Coordinate{Lat: 5, Lng: 6}},
		{Name: "South Cemetery", Category: "cemetery", Location: models.Coordinate{Lat: 6, Lng: 5}},
	}
	z, ok := zone.Build("cemetery", landmarks)
	if !ok {
		t.Fatal("zone.Build() failed")
	}
	loc := models.Coordinate{Lat: 5.2, Lng: 5.2}

	return &Map{
		Title:     "Test route",
		Ordered:   []models.Stop{a, c, b, a},
		RoundTrip: true,
		Skipped: []models.SkippedAddress{
			{Address: "Cemetery Rd", Reason: models.SkipAvoidZone, Category: "cemetery", Location: &loc},
			{Address: "Nowhere", Reason: models.SkipGeocodeFailed, Detail: "ZERO_RESULTS"},
		},
		Landmarks:     landmarks,
		Zones:         []*zone.Zone{z},
		NavigationURL: "https://www.google.com/maps/dir/0,0/1,1/0,1/0,0",
	}
}

func TestGeoJSON(t *testing.T) {
	fc := testRenderer(t).GeoJSON(testMap(t))

	kinds := map[string]int{}
	for _, f := range fc.Features {
		kinds[f.Properties.MustString("kind")]++
	}
	want := map[string]int{KindZone: 1, KindRoute: 3, KindLandmark: 3, KindSkipped: 1, KindStop: 3}
	for k, n := range want {
		if kinds[k] != n {
			t.Errorf("%s features = %d, want %d", k, kinds[k], n)
		}
	}

	var visits []string
	for _, f := range fc.Features {
		if f.Properties.MustString("kind") != KindStop {
			continue
		}
		visits = append(visits, f.Properties.MustString("address"))
		if _, ok := f.Geometry.(orb.Point); !ok {
			t.Errorf("stop geometry = %T, want orb.Point", f.Geometry)
		}
	}
	if strings.Join(visits, "|") != "1 Main St|3 Elm <Rd>|2 Oak Ave" {
		t.Errorf("stop order = %v", visits)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["type"] != "FeatureCollection" {
		t.Errorf("type = %v", decoded["type"])
	}
}

func TestRouteLegColorsFollowGradient(t *testing.T) {
	fc := testRenderer(t).GeoJSON(testMap(t))

	var strokes []string
	for _, f := range fc.Features {
		if f.Properties.MustString("kind") == KindRoute {
			strokes = append(strokes, f.Properties.MustString("stroke"))
		}
	}
	if len(strokes) != 3 {
		t.Fatalf("legs = %d, want 3", len(strokes))
	}
	if strokes[0] != "#1a9850" || strokes[2] != "#d73027" {
		t.Errorf("leg colours = %v, want gradient from #1a9850 to #d73027", strokes)
	}
}

func TestSingleLegColor(t *testing.T) {
	r := testRenderer(t)
	if got := r.legColors(1); len(got) != 1 || hexColor(got[0]) != "#1a9850" {
		t.Errorf("legColors(1) = %v", got)
	}
	if got := r.legColors(0); got != nil {
		t.Errorf("legColors(0) = %v, want nil", got)
	}
}

func TestWriteKML(t *testing.T) {
	var buf bytes.Buffer
	if err := testRenderer(t).WriteKML(&buf, testMap(t)); err != nil {
		t.Fatalf("WriteKML() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<kml",
		"<name>Test route</name>",
		`<Style id="leg-0">`,
		`<Style id="zone-cemetery">`,
		"<name>1. 1 Main St</name>",
		"<name>3. 2 Oak Ave</name>",
		"3 Elm &lt;Rd&gt;",
		"<Polygon>",
		"<name>Skipped</name>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("KML missing %q", want)
		}
	}
	if strings.Contains(out, "<name>4. ") {
		t.Error("KML should not repeat the start stop as a fourth visit")
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := testRenderer(t).WriteHTML(&buf, testMap(t)); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<title>Test route</title>",
		`href="https://www.google.com/maps/dir/0,0/1,1/0,1/0,0"`,
		"<li>3 Elm &lt;Rd&gt;</li>",
		"Cemetery Rd: inside cemetery avoid zone",
		"FeatureCollection",
		"tile.openstreetmap.org",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(out, "3 Elm <Rd>") {
		t.Error("address was not escaped")
	}
}

func TestNewRejectsBadGradient(t *testing.T) {
	_, err := New(&config.OutputConfig{LegGradientStart: "not-a-colour", LegGradientEnd: "#d73027"})
	if err == nil {
		t.Error("New() should reject an invalid gradient colour")
	}
}
