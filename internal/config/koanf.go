// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"doorknock.yaml",
	"doorknock.yml",
	"/etc/doorknock/config.yaml",
	"/etc/doorknock/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Google Maps Platform web service endpoints.
const (
	DefaultGeocodeURL    = "https://maps.googleapis.com/maps/api/geocode/json"
	DefaultDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"
	DefaultPlacesURL     = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	DefaultNavigationURL = "https://www.google.com/maps/dir"
)

// defaultConfig returns a Config with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Maps: MapsConfig{
			APIKey:        "",
			GeocodeURL:    DefaultGeocodeURL,
			DirectionsURL: DefaultDirectionsURL,
			PlacesURL:     DefaultPlacesURL,
			Timeout:       10 * time.Second,
		},
		Routing: RoutingConfig{
			TravelMode: "walking",
			CostMetric: "distance",
			RoundTrip:  true,
			ExactLimit: 10,
			MaxPasses:  50,
		},
		Proximity: ProximityConfig{
			Enabled:      true,
			RadiusMeters: 5000,
			Categories:   []string{"railway", "cemetery"},
		},
		RateLimit: RateLimitConfig{
			Interval: 500 * time.Millisecond,
			Burst:    1,
		},
		Breaker: BreakerConfig{
			Enabled:             true,
			MaxRequests:         1,
			Interval:            time.Minute,
			Timeout:             30 * time.Second,
			ConsecutiveFailures: 5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    10000,
			TTL:     24 * time.Hour,
		},
		Input: InputConfig{
			MaxAddresses: 0,
		},
		Output: OutputConfig{
			Dir:              "out",
			NavigationBase:   DefaultNavigationURL,
			TileURL:          "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			TileAttribution:  "&copy; OpenStreetMap contributors",
			LegGradientStart: "#1a9850",
			LegGradientEnd:   "#d73027",
		},
		Server: ServerConfig{
			Port:           8080,
			Host:           "0.0.0.0",
			Timeout:        30 * time.Second,
			PlanTimeout:    15 * time.Minute,
			MaxUploadBytes: 1 << 20,
		},
		Security: SecurityConfig{
			RateLimitReqs:     10,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources.
//
// Sources, lowest to highest priority:
//  1. Built-in defaults
//  2. YAML config file (CONFIG_PATH or one of DefaultConfigPaths)
//  3. Environment variables
//
// The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are keys that accept comma-separated strings from env vars.
var sliceConfigPaths = []string{
	"proximity.categories",
	"security.cors_origins",
}

// processSliceFields converts comma-separated strings to slices for known slice keys.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf keys.
var envMappings = map[string]string{
	"google_maps_api_key": "maps.api_key",
	"geocode_url":         "maps.geocode_url",
	"directions_url":      "maps.directions_url",
	"places_url":          "maps.places_url",
	"maps_timeout":        "maps.timeout",
	"maps_region":         "maps.region",
	"maps_language":       "maps.language",

	"travel_mode":       "routing.travel_mode",
	"cost_metric":       "routing.cost_metric",
	"round_trip":        "routing.round_trip",
	"route_exact_limit": "routing.exact_limit",
	"route_max_passes":  "routing.max_passes",

	"proximity_enabled":    "proximity.enabled",
	"proximity_radius":     "proximity.radius_meters",
	"proximity_categories": "proximity.categories",

	"rate_limit_interval": "ratelimit.interval",
	"rate_limit_burst":    "ratelimit.burst",

	"breaker_enabled":              "breaker.enabled",
	"breaker_max_requests":         "breaker.max_requests",
	"breaker_interval":             "breaker.interval",
	"breaker_timeout":              "breaker.timeout",
	"breaker_consecutive_failures": "breaker.consecutive_failures",

	"cache_enabled": "cache.enabled",
	"cache_size":    "cache.size",
	"cache_ttl":     "cache.ttl",

	"max_addresses": "input.max_addresses",

	"output_dir":      "output.dir",
	"navigation_base": "output.navigation_base",
	"map_tile_url":    "output.tile_url",
	"map_attribution": "output.tile_attribution",

	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"plan_timeout":     "server.plan_timeout",
	"max_upload_bytes": "server.max_upload_bytes",

	"api_rate_limit_requests": "security.rate_limit_reqs",
	"api_rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":      "security.rate_limit_disabled",
	"cors_origins":            "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf keys.
// Unknown variables return "" and are ignored.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
