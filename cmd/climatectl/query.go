package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/alexivanou/climate-api/internal/neighborhood"
)

var readingsCSV bool

var readingsCmd = &cobra.Command{
	Use:   "readings",
	Short: "List every stored reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		readings, err := svc.ListReadings(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "list readings")
		}
		if readingsCSV {
			b, err := csvutil.Marshal(readings)
			if err != nil {
				return eris.Wrap(err, "encode csv")
			}
			_, err = os.Stdout.Write(b)
			return err
		}
		return writeJSON(os.Stdout, readings)
	},
}

var neighborhoodCmd = &cobra.Command{
	Use:   "neighborhood <country name>",
	Short: "Show a country's latest climate and its neighbors' temperatures",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := svc.Neighborhood(cmd.Context(), strings.Join(args, " "))
		var nb *neighborhood.NoBordersError
		if errors.As(err, &nb) {
			printSnapshot(os.Stdout, nb.Snapshot)
			fmt.Fprintln(os.Stdout, "No bordering countries found.")
			return nil
		}
		if err != nil {
			return eris.Wrap(err, "neighborhood")
		}
		printSnapshot(os.Stdout, snapshot)
		return nil
	},
}

func printSnapshot(w io.Writer, s *model.NeighborhoodSnapshot) {
	fmt.Fprintf(w, "=== %s ===\n", s.CountryName)
	if c := s.Climate; c != nil {
		fmt.Fprintf(w, "Observed:    %s\n", c.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Temperature: %.1f (feels like %.1f, min %.1f, max %.1f)\n", c.Temperature, c.FeelsLike, c.TempMin, c.TempMax)
		fmt.Fprintf(w, "Humidity:    %.0f%%\n", c.Humidity)
		if c.Sunrise != nil && c.Sunset != nil {
			fmt.Fprintf(w, "Sun:         %s - %s UTC\n", *c.Sunrise, *c.Sunset)
		}
	} else {
		fmt.Fprintln(w, "Climate data unavailable.")
	}

	if len(s.Neighbors) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Neighbors:")
	for _, n := range s.Neighbors {
		temp := "n/a"
		if n.Temperature != nil {
			temp = fmt.Sprintf("%.1f", *n.Temperature)
		}
		fmt.Fprintf(w, "  %-4s %-30s %8s\n", n.Code3, n.Name, temp)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	readingsCmd.Flags().BoolVar(&readingsCSV, "csv", false, "Write CSV instead of JSON")
}
