package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Write reference data and weather readings into the store",
}

var ingestReferenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Insert countries and borders from REFERENCE_PATH",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := svc.IngestReference(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "ingest reference")
		}
		logger.Info("Reference data inserted", zap.Int("countries", result.Countries), zap.Int("borders", result.Borders))
		return nil
	},
}

var ingestTemperaturesCmd = &cobra.Command{
	Use:   "temperatures",
	Short: "Fetch and insert current readings for INGEST_REGION",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := svc.IngestTemperatures(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "ingest temperatures")
		}
		logger.Info("Temperatures inserted",
			zap.String("run_id", result.RunID),
			zap.Int("inserted", result.Inserted),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
		)
		return nil
	},
}

var ingestAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Insert reference data, then fetch temperatures",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := svc.IngestAll(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "ingest all")
		}
		logger.Info("All data inserted",
			zap.Int("countries", result.Reference.Countries),
			zap.Int("borders", result.Reference.Borders),
			zap.Int("readings", result.Temperatures.Inserted),
		)
		return nil
	},
}

func init() {
	ingestCmd.AddCommand(ingestReferenceCmd, ingestTemperaturesCmd, ingestAllCmd)
}
