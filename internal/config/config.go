// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package config

import "time"

// Config holds all application configuration.
//
// A Config is built once at startup by LoadWithKoanf and passed explicitly to
// every component that needs it. Nothing reads credentials from package state.
type Config struct {
	Maps      MapsConfig      `koanf:"maps"`
	Routing   RoutingConfig   `koanf:"routing"`
	Proximity ProximityConfig `koanf:"proximity"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Cache     CacheConfig     `koanf:"cache"`
	Input     InputConfig     `koanf:"input"`
	Output    OutputConfig    `koanf:"output"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// MapsConfig holds the Google Maps Platform credentials and endpoints.
//
// Environment Variables:
//   - GOOGLE_MAPS_API_KEY: API key sent with every request (required)
//   - GEOCODE_URL, DIRECTIONS_URL, PLACES_URL: endpoint overrides
//   - MAPS_TIMEOUT: per-request HTTP timeout (default: 10s)
//   - MAPS_REGION, MAPS_LANGUAGE: optional biasing hints for geocoding
type MapsConfig struct {
	APIKey        string        `koanf:"api_key"`
	GeocodeURL    string        `koanf:"geocode_url"`
	DirectionsURL string        `koanf:"directions_url"`
	PlacesURL     string        `koanf:"places_url"`
	Timeout       time.Duration `koanf:"timeout"`
	Region        string        `koanf:"region"`
	Language      string        `koanf:"language"`
}

// RoutingConfig controls the distance matrix and the route sequencer.
type RoutingConfig struct {
	// TravelMode is passed to the directions provider: walking, driving, bicycling, transit.
	TravelMode string `koanf:"travel_mode"`

	// CostMetric selects the leg value used as arc cost: distance (meters) or duration (seconds).
	CostMetric string `koanf:"cost_metric"`

	// RoundTrip returns the route to the first address.
	RoundTrip bool `koanf:"round_trip"`

	// ExactLimit is the largest stop count solved exactly. Larger inputs use
	// construction plus local search.
	ExactLimit int `koanf:"exact_limit"`

	// MaxPasses bounds local search improvement passes.
	MaxPasses int `koanf:"max_passes"`
}

// ProximityConfig controls the landmark avoid-zone filter.
type ProximityConfig struct {
	Enabled      bool     `koanf:"enabled"`
	RadiusMeters int      `koanf:"radius_meters"`
	Categories   []string `koanf:"categories"`
}

// RateLimitConfig controls the shared outbound throttle.
// Interval is the minimum spacing between provider calls; Burst allows short bursts.
type RateLimitConfig struct {
	Interval time.Duration `koanf:"interval"`
	Burst    int           `koanf:"burst"`
}

// BreakerConfig controls the per-service circuit breakers around provider calls.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxRequests allowed through in half-open state.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval is the closed-state window after which failure counts reset.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout"`

	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32 `koanf:"consecutive_failures"`
}

// CacheConfig controls the in-memory cache of geocode and landmark lookups.
// Directions costs are never cached.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Size    int           `koanf:"size"`
	TTL     time.Duration `koanf:"ttl"`
}

// InputConfig bounds accepted address lists. MaxAddresses of 0 means unlimited.
type InputConfig struct {
	MaxAddresses int `koanf:"max_addresses"`
}

// OutputConfig controls rendered artifacts.
type OutputConfig struct {
	Dir              string `koanf:"dir"`
	NavigationBase   string `koanf:"navigation_base"`
	TileURL          string `koanf:"tile_url"`
	TileAttribution  string `koanf:"tile_attribution"`
	LegGradientStart string `koanf:"leg_gradient_start"`
	LegGradientEnd   string `koanf:"leg_gradient_end"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int           `koanf:"port"`
	Host           string        `koanf:"host"`
	Timeout        time.Duration `koanf:"timeout"`
	PlanTimeout    time.Duration `koanf:"plan_timeout"`
	MaxUploadBytes int64         `koanf:"max_upload_bytes"`
}

// SecurityConfig holds request limiting and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
