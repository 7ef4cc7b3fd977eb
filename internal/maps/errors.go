// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package maps

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds. Every error returned by a client wraps exactly one of these,
// so callers branch with errors.Is.
var (
	// ErrNotFound means the service answered but had no result for the query.
	ErrNotFound = errors.New("no result")

	// ErrRateLimited means the service rejected the call for quota reasons.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderError covers transport failures, malformed responses and
	// any other non-OK service status.
	ErrProviderError = errors.New("provider error")
)

// StatusError describes a failed service call.
type StatusError struct {
	Service string // geocode, directions, places
	Status  string // service status string, HTTP_<code>, TRANSPORT, DECODE or CIRCUIT_OPEN
	Message string
	Kind    error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Status, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v: %s", e.Service, e.Status, e.Kind, e.Message)
}

// Unwrap exposes the failure kind to errors.Is.
func (e *StatusError) Unwrap() error {
	return e.Kind
}

// classifyStatus maps a web service status field to a failure kind.
// OK yields nil.
func classifyStatus(status string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return ErrNotFound
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return ErrRateLimited
	default:
		return ErrProviderError
	}
}

// classifyHTTP maps a non-200 HTTP status code to a failure kind.
func classifyHTTP(code int) error {
	if code == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return ErrProviderError
}

// outcome is the metrics label for an error.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}
