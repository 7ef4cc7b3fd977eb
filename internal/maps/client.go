// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package maps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/logging"
	"github.com/tomtom215/doorknock/internal/metrics"
	"github.com/tomtom215/doorknock/internal/ratelimit"
)

// Service names used in errors, logs and metrics.
const (
	ServiceGeocode    = "geocode"
	ServiceDirections = "directions"
	ServicePlaces     = "places"
)

// maxErrorBodySize bounds how much of an error response is read.
const maxErrorBodySize = 64 * 1024

// Client talks to the Google Maps Platform web services. It is safe for
// concurrent use; every call first waits on the shared limiter.
type Client struct {
	httpClient *http.Client
	limiter    ratelimit.Limiter
	apiKey     string

	geocodeURL    string
	directionsURL string
	placesURL     string
	region        string
	language      string

	travelMode string
	costMetric string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client from configuration. The limiter is shared with
// every other outbound caller and must not be nil.
func NewClient(mapsCfg *config.MapsConfig, routingCfg *config.RoutingConfig, limiter ratelimit.Limiter, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: mapsCfg.Timeout},
		limiter:       limiter,
		apiKey:        mapsCfg.APIKey,
		geocodeURL:    mapsCfg.GeocodeURL,
		directionsURL: mapsCfg.DirectionsURL,
		placesURL:     mapsCfg.PlacesURL,
		region:        mapsCfg.Region,
		language:      mapsCfg.Language,
		travelMode:    routingCfg.TravelMode,
		costMetric:    routingCfg.CostMetric,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// statusReporter is implemented by every decoded response body.
type statusReporter interface {
	serviceStatus() (status, message string)
}

// getJSON throttles, performs one GET against endpoint, decodes the body into
// out and classifies the service status. Each call is recorded exactly once
// in the provider metrics.
func (c *Client) getJSON(ctx context.Context, service, endpoint string, params url.Values, out statusReporter) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("key", c.apiKey)
	reqURL := endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return &StatusError{Service: service, Status: "REQUEST", Message: err.Error(), Kind: ErrProviderError}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		serr := &StatusError{Service: service, Status: "TRANSPORT", Message: redactTransportError(err), Kind: ErrProviderError}
		metrics.RecordProviderRequest(service, outcome(serr), time.Since(start))
		return serr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		serr := &StatusError{
			Service: service,
			Status:  fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: strings.TrimSpace(string(body)),
			Kind:    classifyHTTP(resp.StatusCode),
		}
		metrics.RecordProviderRequest(service, outcome(serr), time.Since(start))
		return serr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		serr := &StatusError{Service: service, Status: "DECODE", Message: err.Error(), Kind: ErrProviderError}
		metrics.RecordProviderRequest(service, outcome(serr), time.Since(start))
		return serr
	}

	status, message := out.serviceStatus()
	var serr error
	if kind := classifyStatus(status); kind != nil {
		serr = &StatusError{Service: service, Status: status, Message: message, Kind: kind}
	}
	metrics.RecordProviderRequest(service, outcome(serr), time.Since(start))
	logging.Debug().Str("service", service).Str("status", status).Dur("elapsed", time.Since(start)).Msg("Maps request completed")
	return serr
}

// redactTransportError drops the request URL, which carries the API key,
// from transport errors.
func redactTransportError(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Op + ": " + urlErr.Err.Error()
	}
	return err.Error()
}

// readBodyForError reads a bounded prefix of an error response body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// latLng is the location object shared by all three services.
type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
