package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexivanou/climate-api/internal/database"
	"github.com/alexivanou/climate-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const insertCountrySQL = `
	INSERT INTO countries (code2, code3, name, capital, region, subregion, lat, lon, is_member)
	VALUES (:code2, :code3, :name, :capital, :region, :subregion, :lat, :lon, :is_member)`

const insertBorderSQL = `
	INSERT INTO borders (country_id, neighbor_code3)
	VALUES (:country_id, :neighbor_code3)`

const insertReadingSQL = `
	INSERT INTO temperatures (country_id, observed_at, temperature, feels_like, temp_min, temp_max, humidity, sunrise, sunset)
	VALUES (:country_id, :observed_at, :temperature, :feels_like, :temp_min, :temp_max, :humidity, :sunrise, :sunset)`

const insertRunSQL = `
	INSERT INTO ingest_runs (run_id, region, started_at, finished_at, attempted, inserted, skipped, failed)
	VALUES (:run_id, :region, :started_at, :finished_at, :attempted, :inserted, :skipped, :failed)`

type sqliteCountryRepository struct {
	db sqlx.ExtContext
	// fold is set on SQLite, whose LOWER only handles ASCII. MySQL's
	// LOWER already folds Unicode.
	fold bool
}

func (r *sqliteCountryRepository) InsertCountries(ctx context.Context, countries []model.Country) (int, error) {
	// SQLite variable limit workaround (50 rows * 9 params)
	chunkSize := 50
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

func (r *sqliteCountryRepository) FindByCode3(ctx context.Context, code3 string) (*model.Country, error) {
	var country model.Country
	q := "SELECT * FROM countries WHERE code3 = ? ORDER BY id LIMIT 1"
	if err := sqlx.GetContext(ctx, r.db, &country, q, code3); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &country, nil
}

func (r *sqliteCountryRepository) FindByNameSubstring(ctx context.Context, query string) (*model.Country, error) {
	var country model.Country
	q := "SELECT * FROM countries WHERE LOWER(name) LIKE ? ESCAPE '!' ORDER BY id LIMIT 1"
	pattern := containsPattern(strings.ToLower(query))
	if r.fold {
		q = "SELECT * FROM countries WHERE " + database.FoldFunc + "(name) LIKE ? ESCAPE '!' ORDER BY id LIMIT 1"
		pattern = containsPattern(database.FoldCase(query))
	}
	if err := sqlx.GetContext(ctx, r.db, &country, q, pattern); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &country, nil
}

type sqliteBorderRepository struct {
	db sqlx.ExtContext
}

func (r *sqliteBorderRepository) InsertEdges(ctx context.Context, countryID int64, neighborCodes []string) (int, error) {
	if len(neighborCodes) == 0 {
		return 0, nil
	}
	edges := edgesFor(countryID, neighborCodes)
	if _, err := sqlx.NamedExecContext(ctx, r.db, insertBorderSQL, edges); err != nil {
		return 0, fmt.Errorf("insert borders for country %d: %w", countryID, err)
	}
	return len(edges), nil
}

func (r *sqliteBorderRepository) NeighborsOf(ctx context.Context, countryID int64) ([]model.Neighbor, error) {
	q := `
		SELECT b.neighbor_code3, c.id AS country_id, c.name
		FROM borders b
		JOIN countries c ON c.code3 = b.neighbor_code3
		WHERE b.country_id = ?
		ORDER BY b.id, c.id
	`
	var neighbors []model.Neighbor
	if err := sqlx.SelectContext(ctx, r.db, &neighbors, q, countryID); err != nil {
		return nil, err
	}
	return neighbors, nil
}

type sqliteTemperatureRepository struct {
	db sqlx.ExtContext
}

func (r *sqliteTemperatureRepository) Insert(ctx context.Context, reading *model.Reading) error {
	if _, err := sqlx.NamedExecContext(ctx, r.db, insertReadingSQL, reading); err != nil {
		return fmt.Errorf("insert reading for country %d: %w", reading.CountryID, err)
	}
	return nil
}

func (r *sqliteTemperatureRepository) LatestFor(ctx context.Context, countryID int64) (*model.Reading, error) {
	var reading model.Reading
	q := "SELECT * FROM temperatures WHERE country_id = ? ORDER BY observed_at DESC, id DESC LIMIT 1"
	if err := sqlx.GetContext(ctx, r.db, &reading, q, countryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

func (r *sqliteTemperatureRepository) AllReadings(ctx context.Context) ([]model.ReadingView, error) {
	var readings []model.Reading
	if err := sqlx.SelectContext(ctx, r.db, &readings, "SELECT * FROM temperatures ORDER BY id"); err != nil {
		return nil, err
	}
	return views(readings), nil
}

type sqliteRunRepository struct {
	db sqlx.ExtContext
}

func (r *sqliteRunRepository) Record(ctx context.Context, run *model.IngestRun) error {
	if _, err := sqlx.NamedExecContext(ctx, r.db, insertRunSQL, run); err != nil {
		return fmt.Errorf("record run %s: %w", run.RunID, err)
	}
	return nil
}

func (r *sqliteRunRepository) Latest(ctx context.Context) (*model.IngestRun, error) {
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
