// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package maps

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/tomtom215/doorknock/internal/models"
)

// Places finds landmarks of a category around a point.
type Places interface {
	Nearby(ctx context.Context, center models.Coordinate, category string, radiusMeters int) ([]models.Landmark, error)
}

type placesResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name     string `json:"name"`
		PlaceID  string `json:"place_id"`
		Geometry struct {
			Location latLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (r *placesResponse) serviceStatus() (string, string) {
	return r.Status, r.ErrorMessage
}

// Nearby runs a nearby search with category as the keyword. Only the first
// result page is used. ZERO_RESULTS is an empty set, not an error.
func (c *Client) Nearby(ctx context.Context, center models.Coordinate, category string, radiusMeters int) ([]models.Landmark, error) {
	params := url.Values{}
	params.Set("location", center.String())
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("keyword", category)
	if c.language != "" {
		params.Set("language", c.language)
	}

	var resp placesResponse
	if err := c.getJSON(ctx, ServicePlaces, c.placesURL, params, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	landmarks := make([]models.Landmark, 0, len(resp.Results))
	for _, r := range resp.Results {
		loc := models.Coordinate{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}
		if !loc.Valid() {
			continue
		}
		landmarks = append(landmarks, models.Landmark{
			Name:     r.Name,
			Category: category,
			Location: loc,
		})
	}
	return landmarks, nil
}
