// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

/*
Package api serves the route planner over HTTP using the chi router.

Routes:

	GET  /                        upload form
	POST /api/v1/plans            plan a route from an uploaded address list
	GET  /api/v1/health/live      liveness probe
	GET  /api/v1/health/ready     readiness probe
	GET  /metrics                 Prometheus metrics

POST /api/v1/plans takes a multipart form with the address list in the
"file" field. The format query parameter selects the response body:

  - json (default): the plan in the standard APIResponse envelope
  - geojson: a FeatureCollection of stops, landmarks, zones and legs
  - kml: a KML document for Google Earth and similar viewers
  - html: a standalone Leaflet map page

Errors always use the JSON envelope:

	VALIDATION_ERROR     400  bad form, format or file
	TOO_MANY_ADDRESSES   413  more addresses than input.max_addresses
	INSUFFICIENT_INPUT   422  fewer than two usable addresses
	NO_SOLUTION          422  no tour visits every stop
	RATE_LIMIT_EXCEEDED  429  per-IP request limit hit
	PLAN_FAILED          500  anything else

Planning is synchronous and bounded by server.plan_timeout. Each request
runs its own pipeline; requests share only the outbound throttle and the
circuit breakers.
*/
package api
