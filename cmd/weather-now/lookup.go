package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngmaloney/weather-now/internal/journal"
	"github.com/ngmaloney/weather-now/internal/search"
)

func lookupCmd() *cobra.Command {
	var pick int

	cmd := &cobra.Command{
		Use:   "lookup <city...>",
		Short: "Look up current weather without the terminal interface",
		Long:  "Resolve a city name, print the matches and the current weather for one of them.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, closeLog, err := setupLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			controller := search.NewController(newSearcher(cfg), newWeatherClient(cfg), logger)

			var rec journal.Recorder
			if cfg.Journal.Enabled {
				rec = journal.NewRepository(cfg.Journal.Path)
			}

			return runLookup(cmd.Context(), cmd.OutOrStdout(), controller, rec, strings.Join(args, " "), pick)
		},
	}

	cmd.Flags().IntVarP(&pick, "pick", "p", 1, "which match to show weather for (1-based)")

	return cmd
}

// runLookup resolves query, lists the matches and prints the weather for
// match number pick. A journal write failure is reported but not fatal.
func runLookup(ctx context.Context, w io.Writer, c *search.Controller, rec journal.Recorder, query string, pick int) error {
	if err := c.ResolveCity(ctx, query); err != nil {
		return err
	}

	candidates := c.Candidates()
	fmt.Fprintf(w, "Matches for %q:\n", c.Query())
	for i, loc := range candidates {
		fmt.Fprintf(w, "  %d. %s, %s (%s) %s\n", i+1, loc.Label(), loc.Country, loc.Coordinates(), loc.Timezone)
	}

	if pick < 1 || pick > len(candidates) {
		return fmt.Errorf("pick %d is out of range (1-%d)", pick, len(candidates))
	}

	if err := c.SelectLocation(ctx, pick-1); err != nil {
		return err
	}

	loc := c.Selected()
	weather := c.Weather()

	fmt.Fprintln(w)
	fmt.Fprintln(w, loc.Label())
	fmt.Fprintln(w, loc.Detail())
	fmt.Fprintf(w, "  %-16s%s\n", "Temperature:", weather.TemperatureText())
	fmt.Fprintf(w, "  %-16s%s\n", "Conditions:", weather.Condition())
	fmt.Fprintf(w, "  %-16s%s\n", "Humidity:", weather.HumidityText())
	fmt.Fprintf(w, "  %-16s%s\n", "Wind speed:", weather.WindSpeedText())
	fmt.Fprintf(w, "  %-16s%s\n", "Wind direction:", weather.WindDirectionText())
	fmt.Fprintf(w, "  %-16s%s\n", "Updated:", weather.ObservedText())

	if rec != nil {
		if err := rec.Record(*loc, weather); err != nil {
			fmt.Fprintf(w, "\nwarning: could not record observation: %v\n", err)
		}
	}

	return nil
}
