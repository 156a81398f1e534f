package climate

import "math"

// Severity tiers for the temperature-humidity index
const (
	TierNormal   = "normal"
	TierMild     = "mild"
	TierModerate = "moderate"
	TierSevere   = "severe"
)

// Thresholds holds the inclusive lower bounds of the THI severity tiers
type Thresholds struct {
	Mild     float64
	Moderate float64
	Severe   float64
}

// DefaultThresholds returns the livestock thermal-comfort tier boundaries
func DefaultThresholds() Thresholds {
	return Thresholds{
		Mild:     72,
		Moderate: 78,
		Severe:   82,
	}
}

// Calculator computes the temperature-humidity index (THI), a livestock
// thermal-comfort metric combining air temperature and relative humidity.
type Calculator struct {
	thresholds Thresholds
}

// NewCalculator creates a calculator with the given tier thresholds
func NewCalculator(thresholds Thresholds) *Calculator {
	return &Calculator{thresholds: thresholds}
}

// Index computes the THI value for a temperature in °C and relative
// humidity in percent, rounded to 2 decimal places, and classifies it.
func (c *Calculator) Index(temperatureC, humidityPct float64) (float64, string) {
	value := 0.8*temperatureC + (humidityPct/100)*(temperatureC-14.4) + 46.4
	value = math.Round(value*100) / 100
	return value, c.Tier(value)
}

// Tier classifies an already-computed THI value
func (c *Calculator) Tier(value float64) string {
	switch {
	case value >= c.thresholds.Severe:
		return TierSevere
	case value >= c.thresholds.Moderate:
		return TierModerate
	case value >= c.thresholds.Mild:
		return TierMild
	default:
		return TierNormal
	}
}
