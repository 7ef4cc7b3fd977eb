// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateMaps(); err != nil {
		return err
	}

	if err := c.validateRouting(); err != nil {
		return err
	}

	if err := c.validateProximity(); err != nil {
		return err
	}

	if err := c.validateRateLimit(); err != nil {
		return err
	}

	if err := c.validateBreaker(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateOutput(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateMaps validates provider credentials and endpoints
func (c *Config) validateMaps() error {
	if strings.TrimSpace(c.Maps.APIKey) == "" {
		return fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}
	if containsPlaceholder(c.Maps.APIKey) {
		return fmt.Errorf("GOOGLE_MAPS_API_KEY contains a placeholder value")
	}

	endpoints := []struct {
		value string
		name  string
	}{
		{c.Maps.GeocodeURL, "GEOCODE_URL"},
		{c.Maps.DirectionsURL, "DIRECTIONS_URL"},
		{c.Maps.PlacesURL, "PLACES_URL"},
	}
	for _, ep := range endpoints {
		if err := validateEndpointURL(ep.value, ep.name); err != nil {
			return err
		}
	}

	if c.Maps.Timeout <= 0 {
		return fmt.Errorf("MAPS_TIMEOUT must be positive")
	}
	return nil
}

// validTravelModes are the modes the directions provider accepts
var validTravelModes = map[string]bool{
	"walking":   true,
	"driving":   true,
	"bicycling": true,
	"transit":   true,
}

// validCostMetrics are the leg values usable as arc cost
var validCostMetrics = map[string]bool{
	"distance": true,
	"duration": true,
}

// validateRouting validates matrix and sequencer settings
func (c *Config) validateRouting() error {
	if !validTravelModes[c.Routing.TravelMode] {
		return fmt.Errorf("TRAVEL_MODE must be one of: walking, driving, bicycling, transit")
	}
	if !validCostMetrics[c.Routing.CostMetric] {
		return fmt.Errorf("COST_METRIC must be one of: distance, duration")
	}
	// Held-Karp needs n*2^n table entries; beyond ~16 stops that is gigabytes.
	if c.Routing.ExactLimit < 0 || c.Routing.ExactLimit > 16 {
		return fmt.Errorf("ROUTE_EXACT_LIMIT must be between 0 and 16, got %d", c.Routing.ExactLimit)
	}
	if c.Routing.MaxPasses < 0 {
		return fmt.Errorf("ROUTE_MAX_PASSES must be non-negative")
	}
	return nil
}

// validateProximity validates the avoid-zone filter (only if enabled)
func (c *Config) validateProximity() error {
	if !c.Proximity.Enabled {
		return nil
	}
	if c.Proximity.RadiusMeters <= 0 || c.Proximity.RadiusMeters > 50000 {
		return fmt.Errorf("PROXIMITY_RADIUS must be between 1 and 50000 meters, got %d", c.Proximity.RadiusMeters)
	}
	if len(c.Proximity.Categories) == 0 {
		return fmt.Errorf("PROXIMITY_CATEGORIES must not be empty when PROXIMITY_ENABLED=true")
	}
	for _, cat := range c.Proximity.Categories {
		if strings.TrimSpace(cat) == "" {
			return fmt.Errorf("PROXIMITY_CATEGORIES contains an empty category")
		}
	}
	return nil
}

// validateRateLimit validates the outbound throttle
func (c *Config) validateRateLimit() error {
	if c.RateLimit.Interval < 0 {
		return fmt.Errorf("RATE_LIMIT_INTERVAL must be non-negative")
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	return nil
}

// validateBreaker validates circuit breaker settings (only if enabled)
func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.ConsecutiveFailures == 0 {
		return fmt.Errorf("BREAKER_CONSECUTIVE_FAILURES must be at least 1")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateCache validates lookup cache settings (only if enabled)
func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

// validateOutput validates rendering settings
func (c *Config) validateOutput() error {
	if c.Output.NavigationBase == "" {
		return fmt.Errorf("NAVIGATION_BASE is required")
	}
	return validateEndpointURL(c.Output.NavigationBase, "NAVIGATION_BASE")
}

// validateServer validates HTTP server settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.PlanTimeout < time.Second {
		return fmt.Errorf("PLAN_TIMEOUT must be at least 1s")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// validateSecurity validates API rate limits and CORS
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("API_RATE_LIMIT_REQUESTS must be positive")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("API_RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// HasWildcardCORS reports whether any configured origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns flag values copied from sample configs without editing.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_API_KEY",
	"YOUR_KEY",
	"PLACEHOLDER",
}

// containsPlaceholder checks if a value contains a placeholder pattern.
func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
