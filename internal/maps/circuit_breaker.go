// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package maps

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/metrics"
	"github.com/tomtom215/doorknock/internal/models"
)

// breaker guards one service. An open breaker fails calls immediately with
// ErrProviderError; it never retries.
type breaker struct {
	cb      *gobreaker.CircuitBreaker[interface{}]
	name    string
	service string
}

func newBreaker(service string, cfg *config.BreakerConfig) *breaker {
	name := "maps-" + service
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
			if trip {
				logging.Warn().Str("breaker", name).Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		// A definitive "no result" or a cancelled caller says nothing about
		// service health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &breaker{cb: cb, name: name, service: service}
}

func (b *breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			metrics.RecordProviderRequest(b.service, "rejected", 0)
			return nil, &StatusError{Service: b.service, Status: "CIRCUIT_OPEN", Message: err.Error(), Kind: ErrProviderError}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Service is the full set of map capabilities the planner consumes.
type Service interface {
	Geocoder
	Places
	Directions
}

// CircuitBreakerClient wraps a Service with one breaker per capability, so a
// failing directions backend does not block geocoding.
type CircuitBreakerClient struct {
	inner      Service
	geocode    *breaker
	places     *breaker
	directions *breaker
}

// NewCircuitBreakerClient wraps inner with breakers configured from cfg.
func NewCircuitBreakerClient(inner Service, cfg *config.BreakerConfig) *CircuitBreakerClient {
	return &CircuitBreakerClient{
		inner:      inner,
		geocode:    newBreaker(ServiceGeocode, cfg),
		places:     newBreaker(ServicePlaces, cfg),
		directions: newBreaker(ServiceDirections, cfg),
	}
}

// Geocode resolves an address with circuit breaker protection.
func (c *CircuitBreakerClient) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	return castResult[models.Coordinate](c.geocode.execute(func() (interface{}, error) {
		return c.inner.Geocode(ctx, address)
	}))
}

// Nearby finds landmarks with circuit breaker protection.
func (c *CircuitBreakerClient) Nearby(ctx context.Context, center models.Coordinate, category string, radiusMeters int) ([]models.Landmark, error) {
	return castResult[[]models.Landmark](c.places.execute(func() (interface{}, error) {
		return c.inner.Nearby(ctx, center, category, radiusMeters)
	}))
}

// Cost returns a leg cost with circuit breaker protection.
func (c *CircuitBreakerClient) Cost(ctx context.Context, origin, destination models.Coordinate) (float64, error) {
	return castResult[float64](c.directions.execute(func() (interface{}, error) {
		return c.inner.Cost(ctx, origin, destination)
	}))
}

// OpenCircuits lists the services whose breaker is currently open.
func (c *CircuitBreakerClient) OpenCircuits() []string {
	var open []string
	for _, b := range []*breaker{c.geocode, c.places, c.directions} {
		if b.cb.State() == gobreaker.StateOpen {
			open = append(open, b.service)
		}
	}
	return open
}

// NewService wraps inner in a new set of circuit breakers when enabled.
func NewService(inner Service, cfg *config.BreakerConfig) Service {
	if !cfg.Enabled {
		return inner
	}
	return NewCircuitBreakerClient(inner, cfg)
}
