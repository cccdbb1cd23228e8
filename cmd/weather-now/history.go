package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ngmaloney/weather-now/internal/journal"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded observations",
		Long:  "Print the most recent observations from the local journal, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Don't create an empty database just to report nothing
			if !cfg.Journal.Enabled {
				if _, err := os.Stat(cfg.Journal.Path); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Journal is disabled. Set journal.enabled to start recording observations.")
					return nil
				}
			}

			repo := journal.NewRepository(cfg.Journal.Path)
			entries, err := repo.Recent(limit)
			if err != nil {
				return fmt.Errorf("failed to read journal: %w", err)
			}
			printHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")

	return cmd
}

func printHistory(w io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No observations recorded yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORDED\tLOCATION\tTEMP\tCONDITIONS\tOBSERVED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.RecordedAt.Local().Format(time.DateTime),
			e.Location.Label(),
			e.Conditions.TemperatureText(),
			e.Conditions.Condition(),
			e.Conditions.ObservedText(),
		)
	}
	tw.Flush()
}
