package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexivanou/climate-api/internal/config"
	"github.com/alexivanou/climate-api/internal/database"
	"github.com/alexivanou/climate-api/internal/ingest"
	"github.com/alexivanou/climate-api/internal/reference"
	"github.com/alexivanou/climate-api/internal/repository"
	"github.com/alexivanou/climate-api/internal/service"
	"github.com/alexivanou/climate-api/internal/weather"
)

var (
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	svc    *service.Service
)

var rootCmd = &cobra.Command{
	Use:   "climatectl",
	Short: "Ingest country climate data and query neighborhoods",
	Long: "Loads country and border reference data, fetches current weather for the capitals of a region, " +
		"and reports a country's climate next to its neighbors'. With DB_TYPE=memory the store lives only for one command.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if logger, err = zap.NewDevelopment(); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return connect(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			_ = db.Close()
		}
		_ = logger.Sync()
	},
}

func connect(ctx context.Context) error {
	var err error
	db, err = database.Connect(ctx, cfg.DB)
	if err != nil {
		return eris.Wrap(err, "connect")
	}
	if err := database.Migrate(db, cfg.DB); err != nil {
		return eris.Wrap(err, "migrate")
	}

	orchestrator := ingest.NewOrchestrator(
		db,
		cfg.DB.Type,
		reference.NewLoader(cfg.Ingest.ReferencePath),
		weather.NewClient(cfg.Weather),
		cfg.Ingest.Region,
		logger,
	)
	svc = service.NewService(repository.NewRepositories(db, cfg.DB.Type), orchestrator)
	return nil
}

func main() {
	rootCmd.AddCommand(ingestCmd, readingsCmd, neighborhoodCmd, statsCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
