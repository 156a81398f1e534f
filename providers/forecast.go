package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agroclima.app/config"
	"agroclima.app/errors"
	"agroclima.app/models"
)

var (
	currentFields = []string{
		"temperature_2m",
		"relative_humidity_2m",
		"apparent_temperature",
		"precipitation",
		"weather_code",
		"cloud_cover",
		"pressure_msl",
		"wind_speed_10m",
		"wind_direction_10m",
		"wind_gusts_10m",
	}
	dailyFields = []string{
		"weather_code",
		"temperature_2m_max",
		"temperature_2m_min",
		"precipitation_sum",
		"precipitation_probability_max",
		"sunrise",
		"sunset",
		"uv_index_max",
	}
)

// ForecastClient fetches current conditions and the daily series from the
// Open-Meteo forecast API in a single call.
type ForecastClient struct {
	baseURL  string
	timezone string
	days     int
	client   *http.Client
}

// NewForecastClient creates a forecast client for the configured provider
func NewForecastClient(cfg *config.ForecastConfig) *ForecastClient {
	return &ForecastClient{
		baseURL:  cfg.BaseURL,
		timezone: cfg.Timezone,
		days:     cfg.Days,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

// Fetch retrieves the combined payload for a coordinate pair. No retry on
// failure; the caller owns per-subscriber isolation.
func (c *ForecastClient) Fetch(ctx context.Context, latitude, longitude float64) (*models.ForecastPayload, error) {
	params := url.Values{
		"latitude":      {strconv.FormatFloat(latitude, 'f', -1, 64)},
		"longitude":     {strconv.FormatFloat(longitude, 'f', -1, 64)},
		"current":       {strings.Join(currentFields, ",")},
		"daily":         {strings.Join(dailyFields, ",")},
		"timezone":      {c.timezone},
		"forecast_days": {strconv.Itoa(c.days)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to create forecast request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to get forecast data", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("forecast API returned status code %d", resp.StatusCode), nil)
	}

	var payload models.ForecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode forecast data", err)
	}

	return &payload, nil
}
