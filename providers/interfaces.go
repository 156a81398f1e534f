package providers

import (
	"context"

	"agroclima.app/models"
)

// Geocoder resolves a (city, region) pair to coordinates
type Geocoder interface {
	Resolve(ctx context.Context, city, region string) (*models.Coordinates, error)
}

// ForecastProvider fetches current conditions and the daily forecast series
// for a coordinate pair
type ForecastProvider interface {
	Fetch(ctx context.Context, latitude, longitude float64) (*models.ForecastPayload, error)
}

// Ensure implementations satisfy interfaces
var _ Geocoder = (*GeocodingClient)(nil)
var _ ForecastProvider = (*ForecastClient)(nil)
