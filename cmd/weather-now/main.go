package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ngmaloney/weather-now/internal/config"
	"github.com/ngmaloney/weather-now/internal/forecast"
	"github.com/ngmaloney/weather-now/internal/geocoding"
	"github.com/ngmaloney/weather-now/internal/journal"
	"github.com/ngmaloney/weather-now/internal/ui"
)

var (
	configFile string
	logFile    string
	logLevel   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var query string

	rootCmd := &cobra.Command{
		Use:           "weather-now",
		Short:         "Current weather for any city",
		Long:          "Search for a city by name, pick a match and see its current weather from Open-Meteo.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, closeLog, err := setupLogger(cfg, io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			opts := ui.Options{
				Searcher:     newSearcher(cfg),
				Weather:      newWeatherClient(cfg),
				Logger:       logger,
				Timeout:      cfg.HTTP.Timeout,
				InitialQuery: query,
			}
			if cfg.Journal.Enabled {
				opts.Journal = journal.NewRepository(cfg.Journal.Path)
			}

			logger.Info("starting terminal interface", "journal", cfg.Journal.Enabled)
			p := tea.NewProgram(ui.NewModel(opts), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running application: %w", err)
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&query, "query", "q", "", "search for this city on start")

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default ./weather-now.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(lookupCmd())
	rootCmd.AddCommand(historyCmd())

	return rootCmd
}

// loadConfig reads configuration and applies the logging flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logLevel != "" {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(logLevel))
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// setupLogger builds the application logger. Without a log file, records
// go to fallback: the terminal interface discards them so the alternate
// screen stays intact, headless commands pass stderr.
func setupLogger(cfg *config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}

	if cfg.Log.File == "" {
		return slog.New(slog.NewTextHandler(fallback, opts)), func() {}, nil
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(f, opts)), func() { f.Close() }, nil
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTP.Timeout}
}

func newSearcher(cfg *config.Config) *geocoding.Client {
	return geocoding.NewClient(newHTTPClient(cfg), cfg.Geocoding.URL, cfg.HTTP.UserAgent)
}

func newWeatherClient(cfg *config.Config) *forecast.OpenMeteoClient {
	return forecast.NewWeatherClient(newHTTPClient(cfg), cfg.Forecast.URL, cfg.HTTP.UserAgent)
}
