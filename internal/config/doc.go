// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

/*
Package config provides layered configuration for Doorknock.

Configuration is resolved by LoadWithKoanf from, in increasing priority:
built-in defaults, an optional YAML file, and environment variables. The
resulting Config is validated once and then handed to each component at
construction.

# Configuration File

The file is located through CONFIG_PATH, falling back to doorknock.yaml in the
working directory and /etc/doorknock/config.yaml:

	maps:
	  api_key: "..."
	routing:
	  travel_mode: walking
	  round_trip: true
	proximity:
	  enabled: true
	  radius_meters: 5000
	  categories: [railway, cemetery]
	ratelimit:
	  interval: 500ms

# Environment Variables

Maps provider:
  - GOOGLE_MAPS_API_KEY: API key (required)
  - GEOCODE_URL, DIRECTIONS_URL, PLACES_URL: endpoint overrides
  - MAPS_TIMEOUT: HTTP timeout per provider call (default: 10s)

Routing:
  - TRAVEL_MODE: walking, driving, bicycling, transit (default: walking)
  - COST_METRIC: distance or duration (default: distance)
  - ROUND_TRIP: return to the first address (default: true)
  - ROUTE_EXACT_LIMIT: largest stop count solved exactly (default: 10)

Proximity filter:
  - PROXIMITY_ENABLED (default: true)
  - PROXIMITY_RADIUS: search radius in meters (default: 5000)
  - PROXIMITY_CATEGORIES: comma-separated (default: railway,cemetery)

Throttling:
  - RATE_LIMIT_INTERVAL: minimum spacing between provider calls (default: 500ms)
  - RATE_LIMIT_BURST (default: 1)

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080)
  - MAX_UPLOAD_BYTES (default: 1MiB)
  - API_RATE_LIMIT_REQUESTS, API_RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated allowed origins

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
