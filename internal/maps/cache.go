// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package maps

import (
	"context"
	"strconv"
	"strings"

	"github.com/tomtom215/doorknock/internal/cache"
	"github.com/tomtom215/doorknock/internal/config"
	"github.com/tomtom215/doorknock/internal/metrics"
	"github.com/tomtom215/doorknock/internal/models"
)

// CachingService remembers successful geocode and places results. Failures
// and directions costs always go to the inner Service.
type CachingService struct {
	Service
	geocodes  *cache.LRU[models.Coordinate]
	landmarks *cache.LRU[[]models.Landmark]
}

// NewCachingService wraps inner with caches sized from cfg.
func NewCachingService(inner Service, cfg *config.CacheConfig) *CachingService {
	return &CachingService{
		Service:   inner,
		geocodes:  cache.NewLRU[models.Coordinate](cfg.Size, cfg.TTL),
		landmarks: cache.NewLRU[[]models.Landmark](cfg.Size, cfg.TTL),
	}
}

// Geocode returns a cached location for the normalized address when present.
func (c *CachingService) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	key := strings.ToLower(strings.Join(strings.Fields(address), " "))
	if loc, ok := c.geocodes.Get(key); ok {
		metrics.CacheLookupsTotal.WithLabelValues(ServiceGeocode, "hit").Inc()
		return loc, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues(ServiceGeocode, "miss").Inc()

	loc, err := c.Service.Geocode(ctx, address)
	if err != nil {
		return loc, err
	}
	c.geocodes.Add(key, loc)
	return loc, nil
}

// Nearby returns cached landmarks for the same center, category and radius.
func (c *CachingService) Nearby(ctx context.Context, center models.Coordinate, category string, radiusMeters int) ([]models.Landmark, error) {
	key := center.String() + "|" + category + "|" + strconv.Itoa(radiusMeters)
	if landmarks, ok := c.landmarks.Get(key); ok {
		metrics.CacheLookupsTotal.WithLabelValues(ServicePlaces, "hit").Inc()
		return landmarks, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues(ServicePlaces, "miss").Inc()

	landmarks, err := c.Service.Nearby(ctx, center, category, radiusMeters)
	if err != nil {
		return nil, err
	}
	c.landmarks.Add(key, landmarks)
	return landmarks, nil
}

// Stats returns the combined hit and miss counts of both caches.
func (c *CachingService) Stats() (hits, misses int64) {
	gh, gm, _ := c.geocodes.Stats()
	lh, lm, _ := c.landmarks.Stats()
	return gh + lh, gm + lm
}
