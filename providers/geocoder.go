package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"agroclima.app/config"
	"agroclima.app/errors"
	"agroclima.app/metrics"
	"agroclima.app/models"
	"agroclima.app/providers/cache"
)

// GeocodingClient resolves city/region pairs via the Open-Meteo geocoding
// API using a tiered fallback search with a country filter.
type GeocodingClient struct {
	baseURL      string
	language     string
	client       *http.Client
	cache        cache.Cache
	cacheTTL     time.Duration
	cacheMetrics *metrics.CacheMetrics
}

type geoCandidate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
}

type geoResponse struct {
	Results []geoCandidate `json:"results"`
}

// NewGeocodingClient creates a geocoding client. The cache is optional;
// pass nil to resolve every request against the upstream API.
func NewGeocodingClient(cfg *config.GeocodingConfig, geocodeCache cache.Cache, cacheTTL time.Duration) *GeocodingClient {
	return &GeocodingClient{
		baseURL:      cfg.BaseURL,
		language:     cfg.Language,
		client:       &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		cache:        geocodeCache,
		cacheTTL:     cacheTTL,
		cacheMetrics: metrics.NewCacheMetrics("geocode"),
	}
}

// Resolve finds coordinates for a Brazilian city/region pair. The narrow
// query ("city, region, Brazil") runs first; the broad city-only query runs
// only when the narrow one returned a genuinely empty result set. A narrow
// result set that the country filter rejects entirely is NOT retried
// broadly. Upstream failures are indistinguishable from "no match".
func (c *GeocodingClient) Resolve(ctx context.Context, city, region string) (*models.Coordinates, error) {
	if city == "" || region == "" {
		return nil, errors.NewValidationError("city and region cannot be empty")
	}

	cacheKey := fmt.Sprintf("geo:%s:%s", city, region)
	if coords := c.fromCache(ctx, cacheKey); coords != nil {
		return coords, nil
	}

	candidates, err := c.search(ctx, fmt.Sprintf("%s, %s, Brazil", city, region), 5)
	if err != nil {
		slog.Warn("Geocoding narrow query failed", "city", city, "region", region, "error", err)
		return nil, c.notFound(city, region)
	}

	if match := firstInBrazil(candidates); match != nil {
		return c.store(ctx, cacheKey, match), nil
	}

	// Broaden only when the narrow query came back truly empty
	if len(candidates) > 0 {
		return nil, c.notFound(city, region)
	}

	candidates, err = c.search(ctx, city, 10)
	if err != nil {
		slog.Warn("Geocoding broad query failed", "city", city, "error", err)
		return nil, c.notFound(city, region)
	}

	if match := firstInBrazil(candidates); match != nil {
		return c.store(ctx, cacheKey, match), nil
	}

	return nil, c.notFound(city, region)
}

func (c *GeocodingClient) search(ctx context.Context, name string, count int) ([]geoCandidate, error) {
	params := url.Values{
		"name":     {name},
		"count":    {strconv.Itoa(count)},
		"language": {c.language},
		"format":   {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create geocoding request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned status code %d", resp.StatusCode)
	}

	var result geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}

	return result.Results, nil
}

// firstInBrazil returns the first candidate located in Brazil. Upstream is
// inconsistent about the country spelling, so both are accepted.
func firstInBrazil(candidates []geoCandidate) *models.Coordinates {
	for _, candidate := range candidates {
		if candidate.Country == "Brasil" || candidate.Country == "Brazil" {
			return &models.Coordinates{
				Latitude:  candidate.Latitude,
				Longitude: candidate.Longitude,
			}
		}
	}
	return nil
}

func (c *GeocodingClient) fromCache(ctx context.Context, key string) *models.Coordinates {
	if c.cache == nil {
		return nil
	}

	data, ok := c.cache.Get(ctx, key)
	if !ok {
		c.cacheMetrics.RecordMiss()
		return nil
	}

	var coords models.Coordinates
	if err := json.Unmarshal(data, &coords); err != nil {
		slog.Error("Geocode cache unmarshal error", "error", err, "key", key)
		c.cache.Delete(ctx, key)
		return nil
	}

	c.cacheMetrics.RecordHit()
	return &coords
}

func (c *GeocodingClient) store(ctx context.Context, key string, coords *models.Coordinates) *models.Coordinates {
	if c.cache != nil {
		if data, err := json.Marshal(coords); err == nil {
			c.cache.Set(ctx, key, data, c.cacheTTL)
		}
	}
	return coords
}

func (c *GeocodingClient) notFound(city, region string) error {
	return errors.NewNotFoundError(fmt.Sprintf("no coordinates found for %s, %s", city, region))
}
