package ui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/weather-now/internal/forecast"
	"github.com/ngmaloney/weather-now/internal/geocoding"
	"github.com/ngmaloney/weather-now/internal/journal"
	"github.com/ngmaloney/weather-now/internal/models"
	"github.com/ngmaloney/weather-now/internal/search"
)

// submitQueryMsg asks the model to run a search as if the user had typed
// query and pressed Enter.
type submitQueryMsg struct {
	query string
}

// resolvedMsg is sent when a geocoding search completes
type resolvedMsg struct {
	seq     uint64
	results []models.Location
	err     error
}

// weatherFetchedMsg is sent when current conditions have been fetched
type weatherFetchedMsg struct {
	seq        uint64
	conditions *models.Conditions
	err        error
}

// observationRecordedMsg is sent after a journal write. Failures are
// logged by recordObservation and never shown.
type observationRecordedMsg struct{}

// searchCities performs the geocoding search in the background
func searchCities(ctx context.Context, cancel context.CancelFunc, searcher geocoding.Searcher, req search.ResolveRequest, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		defer cancel()

		results, err := searcher.Search(ctx, req.Query)
		if err != nil {
			logRequestError(logger, "geocoding request failed", err, "query", req.Query)
		}
		return resolvedMsg{seq: req.Seq, results: results, err: err}
	}
}

// fetchWeather fetches current conditions for the selected location
func fetchWeather(ctx context.Context, cancel context.CancelFunc, client forecast.WeatherClient, req search.FetchRequest, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		defer cancel()

		loc := req.Location
		conditions, err := client.GetCurrent(ctx, loc.Latitude, loc.Longitude)
		if err != nil {
			logRequestError(logger, "weather request failed", err,
				"location", loc.Label(),
				"latitude", loc.Latitude,
				"longitude", loc.Longitude)
		}
		return weatherFetchedMsg{seq: req.Seq, conditions: conditions, err: err}
	}
}

// recordObservation appends a fetched observation to the journal
func recordObservation(rec journal.Recorder, loc models.Location, conditions *models.Conditions, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		if err := rec.Record(loc, conditions); err != nil {
			logger.Warn("journal write failed", "location", loc.Label(), "error", err)
		}
		return observationRecordedMsg{}
	}
}

// Superseded requests are cancelled on purpose and only logged at debug.
func logRequestError(logger *slog.Logger, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, context.Canceled) {
		logger.Debug(msg, args...)
		return
	}
	logger.Warn(msg, args...)
}
