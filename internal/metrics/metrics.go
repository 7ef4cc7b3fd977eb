// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

// Package metrics holds the Prometheus instrumentation for Doorknock.
//
// Metrics are registered on the default registry at package init and served
// by the HTTP server at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider Metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doorknock_provider_requests_total",
			Help: "Total number of calls to external map services",
		},
		[]string{"service", "outcome"}, // outcome: ok, not_found, rate_limited, error
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doorknock_provider_request_duration_seconds",
			Help:    "Duration of external map service calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"service"},
	)

	ThrottleWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "doorknock_throttle_wait_seconds",
			Help:    "Time spent waiting on the outbound rate limiter",
			Buckets: []float64{0, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)

	// Pipeline Metrics
	PlanRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doorknock_plan_runs_total",
			Help: "Total number of planning runs by outcome",
		},
		[]string{"outcome"}, // outcome: ok, insufficient_input, no_solution, too_many_addresses, canceled, error
	)

	PlanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "doorknock_plan_duration_seconds",
			Help:    "End-to-end duration of a planning run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	AddressesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doorknock_addresses_total",
			Help: "Addresses processed by result",
		},
		[]string{"result"}, // result: accepted, geocode_failed, avoid_zone
	)

	MatrixUnreachableCells = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "doorknock_matrix_unreachable_cells_total",
			Help: "Distance matrix cells set to infinity after a failed lookup",
		},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doorknock_cache_lookups_total",
			Help: "Provider lookup cache results by service (hit, miss)",
		},
		[]string{"service", "result"},
	)

	LandmarkLookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doorknock_landmark_lookup_failures_total",
			Help: "Places lookups that failed and were treated as empty",
		},
		[]string{"category"},
	)

	SequencerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doorknock_sequencer_duration_seconds",
			Help:    "Route sequencing duration by strategy",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"}, // strategy: exact, heuristic
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordProviderRequest records one external service call.
func RecordProviderRequest(service, outcome string, duration time.Duration) {
	ProviderRequestsTotal.WithLabelValues(service, outcome).Inc()
	ProviderRequestDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordPlanRun records the outcome of a planning run.
func RecordPlanRun(outcome string, duration time.Duration) {
	PlanRunsTotal.WithLabelValues(outcome).Inc()
	PlanDuration.Observe(duration.Seconds())
}

// RecordAddress counts one processed input address.
func RecordAddress(result string) {
	AddressesTotal.WithLabelValues(result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
