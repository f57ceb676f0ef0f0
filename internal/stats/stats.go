// Package stats reports what the climate store holds: table sizes, how
// much of each region has weather readings, and the last ingestion run.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/alexivanou/climate-api/internal/config"
	"github.com/alexivanou/climate-api/internal/model"
	"github.com/alexivanou/climate-api/internal/repository"
	"github.com/jmoiron/sqlx"
)

var tables = []string{"countries", "borders", "temperatures", "ingest_runs"}

type Stats struct {
	Timestamp time.Time        `json:"timestamp"`
	Store     StoreStats       `json:"store"`
	Coverage  Coverage         `json:"coverage"`
	LastRun   *model.IngestRun `json:"last_run"`
}

type StoreStats struct {
	Type      string      `json:"type"`
	SizeBytes int64       `json:"size_bytes"`
	Tables    []TableStat `json:"tables"`
}

type TableStat struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
	// SizeBytes is left at zero on SQLite, which has no per-table size
	// without the dbstat extension.
	SizeBytes int64 `json:"size_bytes,omitempty"`
}

// Coverage describes how much of the country set has weather data
type Coverage struct {
	Countries             int              `json:"countries"`
	CountriesWithReadings int              `json:"countries_with_readings"`
	Readings              int64            `json:"readings"`
	LatestObservation     *time.Time       `json:"latest_observation,omitempty"`
	Regions               []RegionCoverage `json:"regions"`
}

// RegionCoverage is Coverage restricted to one reference region
type RegionCoverage struct {
	Region       string `db:"region" json:"region"`
	Countries    int    `db:"countries" json:"countries"`
	WithReadings int    `db:"with_readings" json:"with_readings"`
}

type Collector struct {
	db     *sqlx.DB
	config config.DBConfig
	runs   repository.RunRepository
}

func NewCollector(db *sqlx.DB, cfg config.DBConfig) *Collector {
	return &Collector{
		db:     db,
		config: cfg,
		runs:   repository.NewRepositories(db, cfg.Type).Run,
	}
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: time.Now().UTC(),
		Store:     StoreStats{Type: string(c.config.Type)},
	}

	size, err := c.databaseSize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get database size: %w", err)
	}
	stats.Store.SizeBytes = size

	for _, table := range tables {
		ts, err := c.tableStat(ctx, table)
		if err != nil {
			return nil, err
		}
		stats.Store.Tables = append(stats.Store.Tables, ts)
		if table == "temperatures" {
			stats.Coverage.Readings = ts.RowCount
		}
	}

	if err := c.fillCoverage(ctx, &stats.Coverage); err != nil {
		return nil, err
	}

	if stats.LastRun, err = c.runs.Latest(ctx); err != nil {
		return nil, fmt.Errorf("failed to get last ingestion run: %w", err)
	}

	return stats, nil
}

func (c *Collector) databaseSize(ctx context.Context) (int64, error) {
	var size int64
	var err error

	switch c.config.Type {
	case config.DBTypePostgreSQL:
		err = c.db.GetContext(ctx, &size, "SELECT pg_database_size(current_database())")
	case config.DBTypeMySQL:
		err = c.db.GetContext(ctx, &size, `
			SELECT COALESCE(SUM(data_length + index_length), 0)
			FROM information_schema.tables WHERE table_schema = DATABASE()`)
	default:
		err = c.db.GetContext(ctx, &size, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	}
	return size, err
}

func (c *Collector) tableStat(ctx context.Context, table string) (TableStat, error) {
	stat := TableStat{Name: table}

	if err := c.db.GetContext(ctx, &stat.RowCount, "SELECT COUNT(*) FROM "+table); err != nil {
		return stat, fmt.Errorf("failed to count %s: %w", table, err)
	}

	var err error
	switch c.config.Type {
	case config.DBTypePostgreSQL:
		err = c.db.GetContext(ctx, &stat.SizeBytes, "SELECT COALESCE(pg_total_relation_size($1::regclass), 0)", table)
	case config.DBTypeMySQL:
		err = c.db.GetContext(ctx, &stat.SizeBytes, `
			SELECT COALESCE(data_length + index_length, 0)
			FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`, table)
	}
	if err != nil {
		return stat, fmt.Errorf("failed to get size of %s: %w", table, err)
	}
	return stat, nil
}

func (c *Collector) fillCoverage(ctx context.Context, cov *Coverage) error {
	regions := []RegionCoverage{}
	err := c.db.SelectContext(ctx, &regions, `
		SELECT c.region AS region,
			COUNT(DISTINCT c.id) AS countries,
			COUNT(DISTINCT t.country_id) AS with_readings
		FROM countries c
		LEFT JOIN temperatures t ON t.country_id = c.id
		GROUP BY c.region
		ORDER BY c.region`)
	if err != nil {
		return fmt.Errorf("failed to get region coverage: %w", err)
	}
	cov.Regions = regions
	for _, r := range regions {
		cov.Countries += r.Countries
		cov.CountriesWithReadings += r.WithReadings
	}

	var latest []time.Time
	err = c.db.SelectContext(ctx, &latest, "SELECT observed_at FROM temperatures ORDER BY observed_at DESC LIMIT 1")
	if err != nil {
		return fmt.Errorf("failed to get latest observation: %w", err)
	}
	if len(latest) > 0 {
		ts := latest[0].UTC()
		cov.LatestObservation = &ts
	}
	return nil
}
