package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ngmaloney/weather-now/internal/config"
	"github.com/ngmaloney/weather-now/internal/forecast"
	"github.com/ngmaloney/weather-now/internal/geocoding"
	"github.com/ngmaloney/weather-now/internal/journal"
	"github.com/ngmaloney/weather-now/internal/models"
	"github.com/ngmaloney/weather-now/internal/search"
)

func newOpenMeteoServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == "Nowhere" {
			w.Write([]byte(`{"generationtime_ms": 0.5}`))
			return
		}
		w.Write([]byte(`{"results": [
			{"id": 2988507, "name": "Paris", "latitude": 48.85341, "longitude": 2.3488, "country": "France", "admin1": "Île-de-France", "timezone": "Europe/Paris"},
			{"id": 4717560, "name": "Paris", "latitude": 33.66094, "longitude": -95.55551, "country": "United States", "admin1": "Texas", "timezone": "America/Chicago"}
		]}`))
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		temp := "18.4"
		if r.URL.Query().Get("latitude") == "33.66094" {
			temp = "31.6"
		}
		w.Write([]byte(`{"timezone": "UTC", "utc_offset_seconds": 0,
			"current": {"time": "2025-06-01T14:15", "temperature_2m": ` + temp + `, "relative_humidity_2m": 62, "wind_speed_10m": 9.7, "wind_direction_10m": 240, "weather_code": 3}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestController(server *httptest.Server) *search.Controller {
	return search.NewController(
		geocoding.NewClient(server.Client(), server.URL+"/v1/search", ""),
		forecast.NewWeatherClient(server.Client(), server.URL+"/v1/forecast", ""),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestRunLookup(t *testing.T) {
	server := newOpenMeteoServer(t)

	tests := []struct {
		name     string
		pick     int
		wantText []string
	}{
		{"first match", 1, []string{"1. Paris, Île-de-France, France", "2. Paris, Texas, United States", "18°C", "Overcast", "240° WSW", "Jun 1, 2025 2:15 PM"}},
		{"second match", 2, []string{"Paris, Texas\nUnited States", "32°C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runLookup(context.Background(), &out, newTestController(server), nil, "Paris", tt.pick)
			if err != nil {
				t.Fatalf("runLookup() error = %v", err)
			}
			for _, want := range tt.wantText {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestRunLookup_Errors(t *testing.T) {
	server := newOpenMeteoServer(t)

	var out bytes.Buffer
	err := runLookup(context.Background(), &out, newTestController(server), nil, "   ", 1)
	if !errors.Is(err, search.ErrValidation) {
		t.Errorf("blank query error = %v, want validation", err)
	}

	err = runLookup(context.Background(), &out, newTestController(server), nil, "Nowhere", 1)
	if !errors.Is(err, search.ErrNotFound) || err.Error() != "No matching cities found." {
		t.Errorf("no match error = %v", err)
	}

	err = runLookup(context.Background(), &out, newTestController(server), nil, "Paris", 3)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("pick error = %v", err)
	}
}

func TestRunLookup_RecordsJournal(t *testing.T) {
	server := newOpenMeteoServer(t)
	repo := journal.NewRepository(filepath.Join(t.TempDir(), "journal.db"))

	var out bytes.Buffer
	if err := runLookup(context.Background(), &out, newTestController(server), repo, "Paris", 1); err != nil {
		t.Fatalf("runLookup() error = %v", err)
	}

	entries, err := repo.Recent(5)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Location.Admin1 != "Île-de-France" {
		t.Errorf("entries = %+v", entries)
	}

	var hist bytes.Buffer
	printHistory(&hist, entries)
	if !strings.Contains(hist.String(), "Paris, Île-de-France") || !strings.Contains(hist.String(), "18°C") {
		t.Errorf("history output:\n%s", hist.String())
	}
}

func TestPrintHistory_Empty(t *testing.T) {
	var out bytes.Buffer
	printHistory(&out, nil)
	if !strings.Contains(out.String(), "No observations recorded yet.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLookupCommand(t *testing.T) {
	server := newOpenMeteoServer(t)
	chdir(t, t.TempDir())
	t.Setenv("WEATHER_NOW_GEOCODING_URL", server.URL+"/v1/search")
	t.Setenv("WEATHER_NOW_FORECAST_URL", server.URL+"/v1/forecast")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"lookup", "--pick", "2", "Paris"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "32°C") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestHistoryCommand_Disabled(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"history"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "Journal is disabled") {
		t.Errorf("output = %q", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "data")); !os.IsNotExist(err) {
		t.Error("history should not create the journal when disabled")
	}
}

func TestHistoryCommand_Enabled(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	dbPath := filepath.Join(dir, "obs.db")
	t.Setenv("WEATHER_NOW_JOURNAL_ENABLED", "true")
	t.Setenv("WEATHER_NOW_JOURNAL_PATH", dbPath)

	repo := journal.NewRepository(dbPath)
	loc := models.Location{Name: "Oslo", Country: "Norway", Latitude: 59.91, Longitude: 10.75}
	if err := repo.Record(loc, &models.Conditions{Temperature: -2.5, WeatherCode: 71}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"history", "--limit", "5"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"Oslo", "-2°C", "Slight snow fall"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := &config.Config{Log: config.LogConfig{Level: "warn"}}

	var buf bytes.Buffer
	logger, closeLog, err := setupLogger(cfg, &buf)
	if err != nil {
		t.Fatalf("setupLogger() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	closeLog()

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log output = %q", buf.String())
	}

	cfg.Log.File = filepath.Join(t.TempDir(), "weather-now.log")
	logger, closeLog, err = setupLogger(cfg, &buf)
	if err != nil {
		t.Fatalf("setupLogger() error = %v", err)
	}
	logger.Error("to file", "elapsed", time.Second)
	closeLog()

	data, err := os.ReadFile(cfg.Log.File)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"to file"`) {
		t.Errorf("log file = %q", data)
	}
}

func TestLoadConfig_LogLevelFlag(t *testing.T) {
	tests := []struct {
		flag    string
		want    slog.Level
		wantErr bool
	}{
		{"DEBUG", slog.LevelDebug, false},
		{" Warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			chdir(t, t.TempDir())
			logLevel = tt.flag
			t.Cleanup(func() { logLevel = "" })

			cfg, err := loadConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unknown log level")
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.SlogLevel() != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", cfg.SlogLevel(), tt.want)
			}
		})
	}
}
