// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package maps

import (
	"context"
	"net/url"
	"strings"

	"github.com/tomtom215/doorknock/internal/models"
)

// Geocoder resolves a free-form address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location latLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (r *geocodeResponse) serviceStatus() (string, string) {
	return r.Status, r.ErrorMessage
}

// Geocode returns the location of the first result for address.
// An empty address fails with ErrNotFound without a network call.
func (c *Client) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.Coordinate{}, &StatusError{Service: ServiceGeocode, Status: "EMPTY_ADDRESS", Kind: ErrNotFound}
	}

	params := url.Values{}
	params.Set("address", address)
	if c.region != "" {
		params.Set("region", c.region)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}

	var resp geocodeResponse
	if err := c.getJSON(ctx, ServiceGeocode, c.geocodeURL, params, &resp); err != nil {
		return models.Coordinate{}, err
	}
	if len(resp.Results) == 0 {
		return models.Coordinate{}, &StatusError{Service: ServiceGeocode, Status: resp.Status, Message: "empty result list", Kind: ErrNotFound}
	}

	loc := resp.Results[0].Geometry.Location
	coord := models.Coordinate{Lat: loc.Lat, Lng: loc.Lng}
	if !coord.Valid() {
		return models.Coordinate{}, &StatusError{Service: ServiceGeocode, Status: "INVALID_LOCATION", Message: coord.String(), Kind: ErrProviderError}
	}
	return coord, nil
}
