// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package maps

import (
	"context"
	"net/url"

	"github.com/tomtom215/doorknock/internal/models"
)

// Directions returns the travel cost of the directed leg origin→destination
// for the configured travel mode. Units depend on the cost metric: meters for
// distance, seconds for duration.
type Directions interface {
	Cost(ctx context.Context, origin, destination models.Coordinate) (float64, error)
}

type legValue struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs []struct {
			Distance legValue `json:"distance"`
			Duration legValue `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

func (r *directionsResponse) serviceStatus() (string, string) {
	return r.Status, r.ErrorMessage
}

// Cost returns the first leg of the first route.
func (c *Client) Cost(ctx context.Context, origin, destination models.Coordinate) (float64, error) {
	params := url.Values{}
	params.Set("origin", origin.String())
	params.Set("destination", destination.String())
	params.Set("mode", c.travelMode)

	var resp directionsResponse
	if err := c.getJSON(ctx, ServiceDirections, c.directionsURL, params, &resp); err != nil {
		return 0, err
	}
	if len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return 0, &StatusError{Service: ServiceDirections, Status: resp.Status, Message: "no route legs", Kind: ErrNotFound}
	}

	leg := resp.Routes[0].Legs[0]
	if c.costMetric == "duration" {
		return leg.Duration.Value, nil
	}
	return leg.Distance.Value, nil
}
