package forecast

import (
	"context"
	"errors"

	"github.com/ngmaloney/weather-now/internal/models"
)

// ErrNoCurrentConditions is returned when the service answers without a
// "current" section.
var ErrNoCurrentConditions = errors.New("response has no current conditions")

// CurrentFields are the current-condition variables requested from the service.
var CurrentFields = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"wind_speed_10m",
	"wind_direction_10m",
	"weather_code",
}

// WeatherClient defines the interface for fetching current weather
type WeatherClient interface {
	// GetCurrent retrieves current conditions for a coordinate pair
	GetCurrent(ctx context.Context, lat, lon float64) (*models.Conditions, error)
}
