package search

import (
	"context"
	"log/slog"

	"github.com/ngmaloney/weather-now/internal/forecast"
	"github.com/ngmaloney/weather-now/internal/geocoding"
)

// Controller runs a Session synchronously against real clients. It is
// used by the headless lookup command; the terminal UI drives Session
// directly so requests can run in the background.
type Controller struct {
	Session

	searcher geocoding.Searcher
	weather  forecast.WeatherClient
	logger   *slog.Logger
}

// NewController creates a controller. A nil logger uses slog.Default().
func NewController(searcher geocoding.Searcher, weather forecast.WeatherClient, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		searcher: searcher,
		weather:  weather,
		logger:   logger,
	}
}

// ResolveCity searches for query and stores the candidates.
func (c *Controller) ResolveCity(ctx context.Context, query string) error {
	req, err := c.BeginResolve(query)
	if err != nil {
		return err
	}

	results, cause := c.searcher.Search(ctx, req.Query)
	if cause != nil {
		c.logger.Warn("geocoding request failed", "query", req.Query, "error", cause)
	}
	_, err = c.CompleteResolve(req.Seq, results, cause)
	return err
}

// SelectLocation selects candidate index and fetches its weather.
func (c *Controller) SelectLocation(ctx context.Context, index int) error {
	req, err := c.Select(index)
	if err != nil {
		return err
	}
	return c.fetch(ctx, req)
}

// FetchCurrentWeather re-fetches weather for the current selection.
func (c *Controller) FetchCurrentWeather(ctx context.Context) error {
	req, err := c.Refresh()
	if err != nil {
		return err
	}
	return c.fetch(ctx, req)
}

func (c *Controller) fetch(ctx context.Context, req FetchRequest) error {
	loc := req.Location
	conditions, cause := c.weather.GetCurrent(ctx, loc.Latitude, loc.Longitude)
	if cause != nil {
		c.logger.Warn("weather request failed",
			"location", loc.Label(),
			"latitude", loc.Latitude,
			"longitude", loc.Longitude,
			"error", cause)
	}
	_, err := c.CompleteFetch(req.Seq, conditions, cause)
	return err
}
