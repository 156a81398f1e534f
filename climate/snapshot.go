package climate

import (
	"math"
	"strings"
	"time"

	"agroclima.app/models"
)

// sunTimeLayout is the minute-precision timestamp format the forecast
// provider uses for sunrise and sunset.
const sunTimeLayout = "2006-01-02T15:04"

// Assembler combines a raw forecast payload with the weather-code catalog
// and the THI calculator into a persistable daily snapshot.
type Assembler struct {
	catalog    *Catalog
	calculator *Calculator
}

// NewAssembler creates an assembler with injected catalog and calculator
func NewAssembler(catalog *Catalog, calculator *Calculator) *Assembler {
	return &Assembler{
		catalog:    catalog,
		calculator: calculator,
	}
}

// Build assembles the snapshot for one subscriber on a given processing
// date. Missing upstream fields never fail the build: current and today
// values stay null, forecast gaps are zero-filled.
func (a *Assembler) Build(profile *models.LocationProfile, payload *models.ForecastPayload, date string) *models.WeatherSnapshot {
	snapshot := &models.WeatherSnapshot{
		UserID:    profile.UserID,
		Date:      date,
		City:      profile.City,
		Region:    profile.Region,
		Latitude:  derefOrZero(profile.Latitude),
		Longitude: derefOrZero(profile.Longitude),

		Temperature:         payload.Current.Temperature,
		ApparentTemperature: payload.Current.ApparentTemperature,
		Humidity:            payload.Current.Humidity,
		Precipitation:       payload.Current.Precipitation,
		CloudCover:          payload.Current.CloudCover,
		SurfacePressure:     payload.Current.SurfacePressure,
		WindSpeed:           payload.Current.WindSpeed,
		WindDirection:       payload.Current.WindDirection,
		WindGusts:           payload.Current.WindGusts,

		TempMax:            floatAt(payload.Daily.TempMax, 0),
		TempMin:            floatAt(payload.Daily.TempMin, 0),
		PrecipitationSum:   floatAt(payload.Daily.PrecipitationSum, 0),
		RainProbabilityMax: floatAt(payload.Daily.RainProbability, 0),
		UVIndexMax:         floatAt(payload.Daily.UVIndexMax, 0),

		Forecast: a.buildForecast(&payload.Daily),
		Source:   models.SnapshotSource,
	}

	sunrise := stringAt(payload.Daily.Sunrise, 0)
	sunset := stringAt(payload.Daily.Sunset, 0)
	if sunrise != nil {
		snapshot.Sunrise = timeOfDay(*sunrise)
	}
	if sunset != nil {
		snapshot.Sunset = timeOfDay(*sunset)
	}
	snapshot.DayLengthHours = dayLength(sunrise, sunset)

	if payload.Current.Temperature != nil && payload.Current.Humidity != nil {
		value, tier := a.calculator.Index(*payload.Current.Temperature, *payload.Current.Humidity)
		snapshot.HeatStressIndex = &value
		snapshot.HeatStressTier = &tier
	}

	return snapshot
}

// buildForecast appends one entry per day the upstream series actually
// dates; gaps in the parallel arrays are filled with zero values and the
// clear-sky code.
func (a *Assembler) buildForecast(daily *models.DailySeries) []models.ForecastEntry {
	entries := make([]models.ForecastEntry, 0, len(daily.Time))
	for i, day := range daily.Time {
		code := 0
		if c := intAt(daily.WeatherCode, i); c != nil {
			code = *c
		}

		entry := models.ForecastEntry{
			Date:             day,
			TempMax:          derefOrZero(floatAt(daily.TempMax, i)),
			TempMin:          derefOrZero(floatAt(daily.TempMin, i)),
			PrecipitationSum: derefOrZero(floatAt(daily.PrecipitationSum, i)),
			RainProbability:  derefOrZero(floatAt(daily.RainProbability, i)),
			WeatherCode:      code,
			Description:      a.catalog.Describe(code),
		}
		if sunrise := stringAt(daily.Sunrise, i); sunrise != nil {
			if tod := timeOfDay(*sunrise); tod != nil {
				entry.Sunrise = *tod
			}
		}
		if sunset := stringAt(daily.Sunset, i); sunset != nil {
			if tod := timeOfDay(*sunset); tod != nil {
				entry.Sunset = *tod
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// timeOfDay strips the date portion of an upstream timestamp,
// keeping only what follows the 'T' separator.
func timeOfDay(timestamp string) *string {
	_, tod, found := strings.Cut(timestamp, "T")
	if !found || tod == "" {
		return nil
	}
	return &tod
}

// dayLength computes (sunset - sunrise) in hours rounded to 2 decimals,
// or nil when either timestamp is missing or unparsable.
func dayLength(sunrise, sunset *string) *float64 {
	if sunrise == nil || sunset == nil {
		return nil
	}

	rise, err := time.Parse(sunTimeLayout, *sunrise)
	if err != nil {
		return nil
	}
	set, err := time.Parse(sunTimeLayout, *sunset)
	if err != nil {
		return nil
	}

	hours := set.Sub(rise).Hours()
	hours = math.Round(hours*100) / 100
	return &hours
}

func floatAt(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func intAt(values []*int, i int) *int {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func stringAt(values []*string, i int) *string {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func derefOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
