package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/climate-api/internal/api"
	"github.com/alexivanou/climate-api/internal/config"
	"github.com/alexivanou/climate-api/internal/database"
	"github.com/alexivanou/climate-api/internal/ingest"
	"github.com/alexivanou/climate-api/internal/reference"
	"github.com/alexivanou/climate-api/internal/repository"
	"github.com/alexivanou/climate-api/internal/scheduler"
	"github.com/alexivanou/climate-api/internal/service"
	"github.com/alexivanou/climate-api/internal/stats"
	"github.com/alexivanou/climate-api/internal/weather"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	// Run migrations
	if err := database.Migrate(db, cfg.DB); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	if cfg.Weather.APIKey == "" {
		logger.Warn("WEATHER_API_KEY is not set, temperature ingestion will fail")
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)
	orchestrator := ingest.NewOrchestrator(
		db,
		cfg.DB.Type,
		reference.NewLoader(cfg.Ingest.ReferencePath),
		weather.NewClient(cfg.Weather),
		cfg.Ingest.Region,
		logger,
	)

	ctx := context.Background()
	isEmpty, err := repository.IsDatabaseEmpty(ctx, db)
	if err != nil {
		logger.Warn("Failed to check if database is empty", zap.Error(err))
	} else if isEmpty {
		logger.Info("Database is empty, ingesting reference data...", zap.String("path", cfg.Ingest.ReferencePath))
		if _, err := orchestrator.IngestReference(ctx); err != nil {
			// The API stays usable; reference data can be ingested later
			logger.Error("Failed to auto-ingest reference data", zap.Error(err))
		}
	}

	sched := scheduler.New(orchestrator, cfg.Ingest.Interval, 10*time.Minute, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	svc := service.NewService(repos, orchestrator)
	statsCollector := stats.NewCollector(db, cfg.DB)
	router := api.NewRouter(svc, statsCollector, logger)

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Ingestion requests call the provider once per country
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
