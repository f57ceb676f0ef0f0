package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/alexivanou/climate-api/internal/stats"
)

var statsText bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print store and runtime statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stats.NewCollector(db, cfg.DB).Collect(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "collect statistics")
		}
		if statsText {
			printStats(os.Stdout, s)
			return nil
		}
		return writeJSON(os.Stdout, s)
	},
}

func printStats(w io.Writer, s *stats.Stats) {
	fmt.Fprintf(w, "Collected at %s UTC (%s store, %s)\n\n",
		s.Timestamp.Format("2006-01-02 15:04:05"), s.Store.Type, formatBytes(uint64(s.Store.SizeBytes)))

	for _, ts := range s.Store.Tables {
		fmt.Fprintf(w, "  %-14s %10d rows", ts.Name, ts.RowCount)
		if ts.SizeBytes > 0 {
			fmt.Fprintf(w, "  %s", formatBytes(uint64(ts.SizeBytes)))
		}
		fmt.Fprintln(w)
	}

	cov := s.Coverage
	fmt.Fprintf(w, "\nCountries with readings: %d of %d\n", cov.CountriesWithReadings, cov.Countries)
	if cov.LatestObservation != nil {
		fmt.Fprintf(w, "Latest observation:      %s UTC\n", cov.LatestObservation.Format("2006-01-02 15:04:05"))
	}
	for _, r := range cov.Regions {
		region := r.Region
		if region == "" {
			region = "(none)"
		}
		fmt.Fprintf(w, "  %-14s %4d / %d\n", region, r.WithReadings, r.Countries)
	}

	if run := s.LastRun; run != nil {
		fmt.Fprintf(w, "\nLast run %s (%s) finished %s UTC: %d inserted, %d skipped, %d failed\n",
			run.RunID, run.Region, run.FinishedAt.Format("2006-01-02 15:04:05"), run.Inserted, run.Skipped, run.Failed)
	}
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	statsCmd.Flags().BoolVar(&statsText, "text", false, "Write a short human readable summary")
}
