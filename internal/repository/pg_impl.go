package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// --- PostgreSQL Implementation ---

type pgCountryRepository struct {
	db sqlx.ExtContext
}

func (r *pgCountryRepository) InsertCountries(ctx context.Context, countries []model.Country) (int, error) {
	// Chunking to avoid parameter limit issues even in PG (max 65535 parameters)
	chunkSize := 2000
	inserted := 0
	for i := 0; i < len(countries); i += chunkSize {
		end := i + chunkSize
		if end > len(countries) {
			end = len(countries)
		}
		batch := countries[i:end]

		if _, err := sqlx.NamedExecContext(ctx, r.db, insertCountrySQL, batch); err != nil {
			return inserted, fmt.Errorf("insert countries: %w", err)
		}
		inserted += len(batch)
	}
	return inserted, nil
}

func (r *pgCountryRepository) FindByCode3(ctx context.Context, code3 string) (*model.Country, error) {
	var country model.Country
	q := "SELECT * FROM countries WHERE code3 = $1 ORDER BY id LIMIT 1"
	if err := sqlx.GetContext(ctx, r.db, &country, q, code3); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &country, nil
}

func (r *pgCountryRepository) FindByNameSubstring(ctx context.Context, query string) (*model.Country, error) {
	var country model.Country
	q := `SELECT * FROM countries WHERE name ILIKE $1 ESCAPE '!' ORDER BY id LIMIT 1`
	if err := sqlx.GetContext(ctx, r.db, &country, q, containsPattern(query)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &country, nil
}

type pgBorderRepository struct {
	db sqlx.ExtContext
}

func (r *pgBorderRepository) InsertEdges(ctx context.Context, countryID int64, neighborCodes []string) (int, error) {
	if len(neighborCodes) == 0 {
		return 0, nil
	}
	edges := edgesFor(countryID, neighborCodes)
	if _, err := sqlx.NamedExecContext(ctx, r.db, insertBorderSQL, edges); err != nil {
		return 0, fmt.Errorf("insert borders for country %d: %w", countryID, err)
	}
	return len(edges), nil
}

func (r *pgBorderRepository) NeighborsOf(ctx context.Context, countryID int64) ([]model.Neighbor, error) {
	q := `
		SELECT b.neighbor_code3, c.id AS country_id, c.name
		FROM borders b
		JOIN countries c ON c.code3 = b.neighbor_code3
		WHERE b.country_id = $1
		ORDER BY b.id, c.id
	`
	var neighbors []model.Neighbor
	if err := sqlx.SelectContext(ctx, r.db, &neighbors, q, countryID); err != nil {
		return nil, err
	}
	return neighbors, nil
}

type pgTemperatureRepository struct {
	db sqlx.ExtContext
}

func (r *pgTemperatureRepository) Insert(ctx context.Context, reading *model.Reading) error {
	if _, err := sqlx.NamedExecContext(ctx, r.db, insertReadingSQL, reading); err != nil {
		return fmt.Errorf("insert reading for country %d: %w", reading.CountryID, err)
	}
	return nil
}

func (r *pgTemperatureRepository) LatestFor(ctx context.Context, countryID int64) (*model.Reading, error) {
	var reading model.Reading
	q := "SELECT * FROM temperatures WHERE country_id = $1 ORDER BY observed_at DESC, id DESC LIMIT 1"
	if err := sqlx.GetContext(ctx, r.db, &reading, q, countryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

func (r *pgTemperatureRepository) AllReadings(ctx context.Context) ([]model.ReadingView, error) {
	var readings []model.Reading
	if err := sqlx.SelectContext(ctx, r.db, &readings, "SELECT * FROM temperatures ORDER BY id"); err != nil {
		return nil, err
	}
	return views(readings), nil
}

type pgRunRepository struct {
	db sqlx.ExtContext
}

func (r *pgRunRepository) Record(ctx context.Context, run *model.IngestRun) error {
	if _, err := sqlx.NamedExecContext(ctx, r.db, insertRunSQL, run); err != nil {
		return fmt.Errorf("record run %s: %w", run.RunID, err)
	}
	return nil
}

func (r *pgRunRepository) Latest(ctx context.Context) (*model.IngestRun, error) {
	var run model.IngestRun
	q := "SELECT * FROM ingest_runs ORDER BY finished_at DESC, id DESC LIMIT 1"
	if err := sqlx.GetContext(ctx, r.db, &run, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}
