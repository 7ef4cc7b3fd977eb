// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package api

import (
	"bytes"
	"context"
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/distance"
	"github.com/tomtom215/doorknock/internal/maps"
	"github.com/tomtom215/doorknock/internal/models"
	"github.com/tomtom215/doorknock/internal/pipeline"
	"github.com/tomtom215/doorknock/internal/render"
	"github.com/tomtom215/doorknock/internal/route"
)

type fakeGeocoder map[string]models.Coordinate

func (f fakeGeocoder) Geocode(_ context.Context, address string) (models.Coordinate, error) {
	if c, ok := f[address]; ok {
		return c, nil
	}
	return models.Coordinate{}, &maps.StatusError{Service: maps.ServiceGeocode, Status: "ZERO_RESULTS", Kind: maps.ErrNotFound}
}

type fakeDirections struct{ fail bool }

func (f fakeDirections) Cost(_ context.Context, from, to models.Coordinate) (float64, error) {
	if f.fail {
		return 0, &maps.StatusError{Service: maps.ServiceDirections, Status: "ZERO_RESULTS", Kind: maps.ErrNotFound}
	}
	return (math.Abs(from.Lat-to.Lat) + math.Abs(from.Lng-to.Lng)) * 1000, nil
}

var geocoder = fakeGeocoder{
	"1 Main St": {Lat: 51.5, Lng: -0.12},
	"2 Oak Ave": {Lat: 51.51, Lng: -0.13},
	"3 Pine Ln": {Lat: 51.52, Lng: -0.11},
}

type testServer struct {
	handler http.Handler
	cfg     *config.Config
}

func newTestServer(t *testing.T, dirs fakeDirections, mutate func(*config.Config)) *testServer {
	t.Helper()

	cfg := &config.Config{
		Routing: config.RoutingConfig{RoundTrip: true, ExactLimit: 10, MaxPasses: 10},
		Input:   config.InputConfig{MaxAddresses: 5},
		Output: config.OutputConfig{
			NavigationBase:   config.DefaultNavigationURL,
			TileURL:          "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			TileAttribution:  "OpenStreetMap",
			LegGradientStart: "#1a9850",
			LegGradientEnd:   "#d73027",
		},
		Server: config.ServerConfig{PlanTimeout: time.Minute, MaxUploadBytes: 4096},
		Security: config.SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	renderer, err := render.New(&cfg.Output)
	if err != nil {
		t.Fatalf("render.New() error = %v", err)
	}
	planner := pipeline.New(geocoder, distance.NewBuilder(dirs), route.NewSolver(&cfg.Routing), cfg)
	h := NewHandler(planner, renderer, &cfg.Server, nil)
	mw := NewChiMiddleware(NewChiMiddlewareConfig(&cfg.Security))
	return &testServer{handler: NewRouter(h, mw).Setup(), cfg: cfg}
}

func uploadRequest(t *testing.T, query, content, title string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if content != "" {
		fw, err := mw.CreateFormFile("file", "saturday.txt")
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		_, _ = fw.Write([]byte(content))
	}
	if title != "" {
		_ = mw.WriteField("title", title)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans"+query, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return resp
}

const threeAddresses = "1 Main St\n2 Oak Ave\n3 Pine Ln\n"

func TestCreatePlanJSON(t *testing.T) {
	s := newTestServer(t, fakeDirections{}, nil)

	rec := s.do(uploadRequest(t, "", threeAddresses+"Unknown Pl\n", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if resp.Status != "success" || resp.Error != nil {
		t.Fatalf("response = %+v", resp)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T", resp.Data)
	}
	if ordered, _ := data["ordered"].([]interface{}); len(ordered) != 4 {
		t.Errorf("ordered stops = %d, want 4", len(ordered))
	}
	if skipped, _ := data["skipped"].([]interface{}); len(skipped) != 1 {
		t.Errorf("skipped = %d, want 1", len(skipped))
	}
	nav, _ := data["navigation_url"].(string)
	if !strings.HasPrefix(nav, "https://www.google.com/maps/dir/51.5,-0.12/") {
		t.Errorf("navigation_url = %q", nav)
	}
	if resp.Metadata.RequestID == "" || rec.Header().Get("X-Request-ID") != resp.Metadata.RequestID {
		t.Errorf("request ID header %q, metadata %q", rec.Header().Get("X-Request-ID"), resp.Metadata.RequestID)
	}
}

func TestCreatePlanFormats(t *testing.T) {
	tests := []struct {
		query       string
		contentType string
		contains    string
	}{
		{"?format=geojson", "application/geo+json", `"FeatureCollection"`},
		{"?format=kml", "application/vnd.google-earth.kml+xml", "<kml"},
		{"?format=html", "text/html; charset=utf-8", "<title>Weekend run</title>"},
		{"?format=HTML", "text/html; charset=utf-8", "leaflet"},
	}
	s := newTestServer(t, fakeDirections{}, nil)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := s.do(uploadRequest(t, tt.query, threeAddresses, "Weekend run"))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
			if rec.Header().Get("X-Plan-ID") == "" {
				t.Error("missing X-Plan-ID header")
			}
		})
	}
}

func TestCreatePlanErrors(t *testing.T) {
	tests := []struct {
		name     string
		dirs     fakeDirections
		req      func(t *testing.T) *http.Request
		wantCode int
		wantErr  string
	}{
		{
			name:     "bad format",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "?format=pdf", threeAddresses, "") },
			wantCode: http.StatusBadRequest,
			wantErr:  CodeValidation,
		},
		{
			name:     "missing file",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "", "", "title only") },
			wantCode: http.StatusBadRequest,
			wantErr:  CodeValidation,
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/v1/plans", strings.NewReader(threeAddresses))
			},
			wantCode: http.StatusBadRequest,
			wantErr:  CodeValidation,
		},
		{
			name:     "control characters in title",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "", threeAddresses, "a\x07b") },
			wantCode: http.StatusBadRequest,
			wantErr:  CodeValidation,
		},
		{
			name:     "file too large",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "", strings.Repeat("1 Main St\n", 500), "") },
			wantCode: http.StatusBadRequest,
			wantErr:  CodeValidation,
		},
		{
			name:     "one address",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "", "1 Main St\nUnknown Pl\n", "") },
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  CodeInsufficientInput,
		},
		{
			name:     "too many addresses",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "", "a\nb\nc\nd\ne\nf\n", "") },
			wantCode: http.StatusRequestEntityTooLarge,
			wantErr:  CodeTooManyAddresses,
		},
		{
			name:     "no route",
			dirs:     fakeDirections{fail: true},
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "", threeAddresses, "") },
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  CodeNoSolution,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.dirs, nil)
			rec := s.do(tt.req(t))
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			resp := decodeResponse(t, rec)
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != tt.wantErr {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestCreatePlanRateLimited(t *testing.T) {
	s := newTestServer(t, fakeDirections{}, func(c *config.Config) {
		c.Security.RateLimitDisabled = false
		c.Security.RateLimitReqs = 1
	})

	if rec := s.do(uploadRequest(t, "", threeAddresses, "")); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	rec := s.do(uploadRequest(t, "", threeAddresses, ""))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Error == nil || resp.Error.Code != CodeRateLimited {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, fakeDirections{}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusOK || decodeResponse(t, rec).Status != "ready" {
		t.Errorf("ready status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHealthReadyReportsCheckFailure(t *testing.T) {
	h := NewHandler(nil, nil, &config.ServerConfig{}, func(context.Context) error {
		return errors.New("open circuits: directions")
	})
	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, _ := resp.Data.(map[string]interface{})
	if resp.Status != "not_ready" || data["reason"] != "open circuits: directions" {
		t.Errorf("response = %+v", resp)
	}
}

func TestIndexAndMetrics(t *testing.T) {
	s := newTestServer(t, fakeDirections{}, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `name="file"`) {
		t.Errorf("index status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "max 4 KB") {
		t.Error("index should show the upload limit")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing security headers")
	}

	rec = s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "doorknock_") {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestPlanErrorMapping(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantErr  string
	}{
		{pipeline.ErrTooManyAddresses, http.StatusRequestEntityTooLarge, CodeTooManyAddresses},
		{pipeline.ErrInsufficientInput, http.StatusUnprocessableEntity, CodeInsufficientInput},
		{route.ErrNoSolution, http.StatusUnprocessableEntity, CodeNoSolution},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, CodePlanFailed},
		{errors.New("boom"), http.StatusInternalServerError, CodePlanFailed},
	}
	for _, tt := range tests {
		status, code, _ := planError(tt.err)
		if status != tt.wantCode || code != tt.wantErr {
			t.Errorf("planError(%v) = %d %s, want %d %s", tt.err, status, code, tt.wantCode, tt.wantErr)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
