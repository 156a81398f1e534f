// Package models defines data structures used throughout the application
package models

import (
	"time"
)

// SnapshotSource identifies the upstream provider every snapshot is captured from
const SnapshotSource = "open-meteo"

// LocationProfile represents a subscriber's configured location.
// Coordinates stay null until the sync job resolves them; once resolved
// the job never overwrites the pair.
type LocationProfile struct {
	UserID           string     `json:"usuario_id" gorm:"primaryKey;column:usuario_id"`
	City             string     `json:"city" gorm:"not null"`
	Region           string     `json:"region" gorm:"not null"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	CoordsResolvedAt *time.Time `json:"coords_resolved_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HasCoordinates reports whether both latitude and longitude are resolved
func (p *LocationProfile) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Coordinates is a resolved latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ForecastEntry is one day of the embedded 7-day forecast list
type ForecastEntry struct {
	Date             string  `json:"date"`
	TempMax          float64 `json:"temp_max"`
	TempMin          float64 `json:"temp_min"`
	PrecipitationSum float64 `json:"precipitation_sum"`
	RainProbability  float64 `json:"rain_probability"`
	WeatherCode      int     `json:"weather_code"`
	Description      string  `json:"description"`
	Sunrise          string  `json:"sunrise"`
	Sunset           string  `json:"sunset"`
}

// WeatherSnapshot is the daily weather record persisted per subscriber.
// Uniqueness is enforced on (usuario_id, date); repeated runs for the same
// day overwrite the whole row.
type WeatherSnapshot struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	UserID    string  `json:"usuario_id" gorm:"column:usuario_id;uniqueIndex:idx_snapshot_user_date;not null"`
	Date      string  `json:"date" gorm:"uniqueIndex:idx_snapshot_user_date;not null"`
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Temperature         *float64 `json:"temperature"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	Humidity            *float64 `json:"humidity"`
	Precipitation       *float64 `json:"precipitation"`
	CloudCover          *float64 `json:"cloud_cover"`
	SurfacePressure     *float64 `json:"surface_pressure"`
	WindSpeed           *float64 `json:"wind_speed"`
	WindDirection       *float64 `json:"wind_direction"`
	WindGusts           *float64 `json:"wind_gusts"`

	TempMax            *float64 `json:"temp_max"`
	TempMin            *float64 `json:"temp_min"`
	PrecipitationSum   *float64 `json:"precipitation_sum"`
	RainProbabilityMax *float64 `json:"rain_probability_max"`
	UVIndexMax         *float64 `json:"uv_index_max"`

	Sunrise        *string  `json:"sunrise"`
	Sunset         *string  `json:"sunset"`
	DayLengthHours *float64 `json:"day_length_hours"`

	HeatStressIndex *float64 `json:"heat_stress_index"`
	HeatStressTier  *string  `json:"heat_stress_tier"`

	Forecast []ForecastEntry `json:"forecast" gorm:"serializer:json"`
	Source   string          `json:"source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriberOutcome records one subscriber's result within a run
type SubscriberOutcome struct {
	UserID string `json:"usuario_id"`
	Status string `json:"status"` // "atualizado" or "erro"
	Error  string `json:"erro,omitempty"`
}

// RunSummary aggregates the result of one sync run. Not persisted.
type RunSummary struct {
	RunID    string              `json:"run_id"`
	Date     string              `json:"data"`
	Total    int                 `json:"total_usuarios"`
	Updated  int                 `json:"atualizados"`
	Errors   int                 `json:"erros"`
	Outcomes []SubscriberOutcome `json:"detalhes,omitempty"`
}

// CurrentConditions mirrors the upstream provider's current block.
// Pointer fields keep missing upstream values distinguishable from zero.
type CurrentConditions struct {
	Temperature         *float64 `json:"temperature_2m"`
	Humidity            *float64 `json:"relative_humidity_2m"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	Precipitation       *float64 `json:"precipitation"`
	WeatherCode         *int     `json:"weather_code"`
	CloudCover          *float64 `json:"cloud_cover"`
	SurfacePressure     *float64 `json:"pressure_msl"`
	WindSpeed           *float64 `json:"wind_speed_10m"`
	WindDirection       *float64 `json:"wind_direction_10m"`
	WindGusts           *float64 `json:"wind_gusts_10m"`
}

// DailySeries mirrors the upstream provider's daily parallel arrays.
// Arrays may be shorter than Time or hold nulls; consumers fill gaps.
type DailySeries struct {
	Time             []string   `json:"time"`
	WeatherCode      []*int     `json:"weather_code"`
	TempMax          []*float64 `json:"temperature_2m_max"`
	TempMin          []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
	RainProbability  []*float64 `json:"precipitation_probability_max"`
	Sunrise          []*string  `json:"sunrise"`
	Sunset           []*string  `json:"sunset"`
	UVIndexMax       []*float64 `json:"uv_index_max"`
}

// ForecastPayload is the combined current + daily response from the forecast provider
type ForecastPayload struct {
	Current CurrentConditions `json:"current"`
	Daily   DailySeries       `json:"daily"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}
