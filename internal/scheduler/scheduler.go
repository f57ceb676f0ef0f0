package scheduler

import (
	"context"
	"time"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// TemperatureIngester runs one temperature ingestion
type TemperatureIngester interface {
	IngestTemperatures(ctx context.Context) (*model.TemperatureIngestResult, error)
}

// Scheduler periodically runs temperature ingestion
type Scheduler struct {
	scheduler *gocron.Scheduler
	ingester  TemperatureIngester
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler. Each run is bounded by timeout.
func New(ingester TemperatureIngester, interval, timeout time.Duration, logger *zap.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// A slow run must not overlap the next one
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		ingester:  ingester,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// A non-positive interval leaves the scheduler idle.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("Periodic ingestion disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.run)
	if err != nil {
		return err
	}

	s.logger.Info("Periodic ingestion scheduled", zap.Duration("interval", s.interval))
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.ingester.IngestTemperatures(ctx)
	if err != nil {
		s.logger.Error("Scheduled ingestion failed", zap.Error(err))
		return
	}
	s.logger.Info("Scheduled ingestion completed",
		zap.String("run_id", result.RunID),
		zap.Int("inserted", result.Inserted),
	)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
