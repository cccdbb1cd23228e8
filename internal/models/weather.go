package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// observedLayout is the display format for observation times.
const observedLayout = "Jan 2, 2006 3:04 PM"

var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Units holds the unit labels reported by the weather service. Empty
// labels render as the metric defaults.
type Units struct {
	Temperature string
	Humidity    string
	WindSpeed   string
}

// Conditions is a snapshot of current weather at a selected location.
type Conditions struct {
	Temperature   float64
	Humidity      float64
	WindSpeed     float64
	WindDirection float64 // degrees
	WeatherCode   int
	ObservedAt    time.Time // zero if the service time could not be parsed
	RawTime       string    // "2006-01-02T15:04" as returned, local to Timezone
	Timezone      string
	Units         Units
}

// Condition returns the label for the snapshot's weather code.
func (c *Conditions) Condition() string {
	return WeatherLabel(c.WeatherCode)
}

// TemperatureText renders the temperature rounded to a whole degree, e.g. "18°C".
func (c *Conditions) TemperatureText() string {
	return withUnit(roundHalfUp(c.Temperature), c.Units.Temperature, "°C")
}

// HumidityText renders relative humidity, e.g. "65%".
func (c *Conditions) HumidityText() string {
	return withUnit(roundHalfUp(c.Humidity), c.Units.Humidity, "%")
}

// WindSpeedText renders wind speed, e.g. "12 km/h".
func (c *Conditions) WindSpeedText() string {
	return withUnit(roundHalfUp(c.WindSpeed), c.Units.WindSpeed, "km/h")
}

// WindDirectionText renders wind direction with its compass point, e.g. "225° SW".
func (c *Conditions) WindDirectionText() string {
	return fmt.Sprintf("%d° %s", roundHalfUp(c.WindDirection), Compass(c.WindDirection))
}

// ObservedText renders the observation time, falling back to the raw value.
func (c *Conditions) ObservedText() string {
	if c.ObservedAt.IsZero() {
		return c.RawTime
	}
	return c.ObservedAt.Format(observedLayout)
}

// Compass converts degrees to a 16-point compass abbreviation.
func Compass(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Floor(d/22.5+0.5)) % len(compassPoints)
	return compassPoints[idx]
}

// withUnit appends label to v. Degree and percent signs attach directly,
// word units get a space.
func withUnit(v int, label, fallback string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = fallback
	}
	if strings.HasPrefix(label, "°") || label == "%" {
		return fmt.Sprintf("%d%s", v, label)
	}
	return fmt.Sprintf("%d %s", v, label)
}

// roundHalfUp rounds .5 toward positive infinity (-2.5 becomes -2).
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
