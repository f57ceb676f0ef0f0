// Package ingest writes reference data and weather readings into the store.
// Each run works inside a single transaction that is committed at the end.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/alexivanou/climate-api/internal/config"
	"github.com/alexivanou/climate-api/internal/model"
	"github.com/alexivanou/climate-api/internal/repository"
	"github.com/alexivanou/climate-api/internal/weather"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultRegion is the region ingested for weather when none is configured
const DefaultRegion = "Europe"

// readingSavepoint scopes the store work of one country inside a run
const readingSavepoint = "country_reading"

// ReferenceLoader provides the country reference records
type ReferenceLoader interface {
	Load(ctx context.Context) ([]model.CountryRecord, error)
}

// WeatherClient fetches a reading for a capital in a given format
type WeatherClient interface {
	Fetch(ctx context.Context, capital string, format weather.Format) (*model.Reading, error)
}

// Orchestrator runs the reference and temperature ingestion
type Orchestrator struct {
	db      *sqlx.DB
	dbType  config.DBType
	loader  ReferenceLoader
	weather WeatherClient
	region  string
	logger  *zap.Logger
}

// NewOrchestrator creates an orchestrator. An empty region falls back to DefaultRegion.
func NewOrchestrator(
	db *sqlx.DB,
	dbType config.DBType,
	loader ReferenceLoader,
	weatherClient WeatherClient,
	region string,
	logger *zap.Logger,
) *Orchestrator {
	if region == "" {
		region = DefaultRegion
	}
	return &Orchestrator{
		db:      db,
		dbType:  dbType,
		loader:  loader,
		weather: weatherClient,
		region:  region,
		logger:  logger,
	}
}

// IngestReference inserts every reference country and then the border
// edges of each country that has a code3.
func (o *Orchestrator) IngestReference(ctx context.Context) (*model.ReferenceIngestResult, error) {
	records, err := o.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := o.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "begin reference ingestion")
	}
	defer tx.Rollback()

	repos := repository.NewRepositories(tx, o.dbType)

	countries := make([]model.Country, 0, len(records))
	for _, r := range records {
		countries = append(countries, model.NewCountry(r))
	}

	result := &model.ReferenceIngestResult{}
	if result.Countries, err = repos.Country.InsertCountries(ctx, countries); err != nil {
		return nil, eris.Wrap(err, "insert countries")
	}

	for _, r := range records {
		if r.Code3 == "" {
			o.logger.Warn("Skipping borders for country without code3", zap.String("name", r.Name))
			continue
		}
		country, err := repos.Country.FindByCode3(ctx, r.Code3)
		if err != nil {
			return nil, eris.Wrapf(err, "resolve country %s", r.Code3)
		}
		if country == nil {
			o.logger.Warn("Country not found after insert", zap.String("code3", r.Code3))
			continue
		}
		n, err := repos.Border.InsertEdges(ctx, country.ID, r.Borders)
		if err != nil {
			return nil, eris.Wrapf(err, "insert borders for %s", r.Code3)
		}
		result.Borders += n
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "commit reference ingestion")
	}

	o.logger.Info("Reference data ingested",
		zap.Int("countries", result.Countries),
		zap.Int("borders", result.Borders),
	)
	return result, nil
}

// IngestTemperatures fetches and stores one reading per country of the
// configured region. The first half of the region is fetched as JSON and
// the second as XML. Fetch and store failures of a single country are
// logged and counted as failed; the rest of the batch still commits.
func (o *Orchestrator) IngestTemperatures(ctx context.Context) (*model.TemperatureIngestResult, error) {
	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	log := o.logger.With(zap.String("run_id", runID))

	records, err := o.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	targets := FilterRegion(records, o.region)
	jsonHalf, xmlHalf := SplitBatch(targets)
	log.Info("Starting temperature ingestion",
		zap.String("region", o.region),
		zap.Int("countries", len(targets)),
		zap.Int("json", len(jsonHalf)),
		zap.Int("xml", len(xmlHalf)),
	)

	tx, err := o.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "begin temperature ingestion")
	}
	defer tx.Rollback()

	repos := repository.NewRepositories(tx, o.dbType)
	result := &model.TemperatureIngestResult{RunID: runID}

	for _, half := range []struct {
		records []model.CountryRecord
		format  weather.Format
	}{
		{jsonHalf, weather.FormatJSON},
		{xmlHalf, weather.FormatXML},
	} {
		for _, r := range half.records {
			if err := o.ingestOne(ctx, log, tx, repos, r, half.format, result); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "commit temperature ingestion")
	}

	run := &model.IngestRun{
		RunID:      runID,
		Region:     o.region,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Attempted:  result.Attempted,
		Inserted:   result.Inserted,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
	}
	// The readings are already committed; a missing run record only affects stats
	if err := repository.NewRepositories(o.db, o.dbType).Run.Record(ctx, run); err != nil {
		log.Error("Failed to record ingestion run", zap.Error(err))
	}

	log.Info("Temperature ingestion finished",
		zap.Int("attempted", result.Attempted),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ingestOne handles a single country. It only returns an error for
// failures that must abort the run: cancellation and savepoint errors.
func (o *Orchestrator) ingestOne(
	ctx context.Context,
	log *zap.Logger,
	tx *sqlx.Tx,
	repos *repository.Container,
	r model.CountryRecord,
	format weather.Format,
	result *model.TemperatureIngestResult,
) error {
	result.Attempted++
	fields := []zap.Field{zap.String("code3", r.Code3), zap.String("capital", r.Capital), zap.Stringer("format", format)}

	if !r.HasCapital() {
		result.Skipped++
		log.Info("Skipping country without capital", fields...)
		return nil
	}

	reading, err := o.weather.Fetch(ctx, r.Capital, format)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return eris.Wrap(ctxErr, "temperature ingestion interrupted")
		}
		result.Failed++
		log.Warn("Weather fetch failed", append(fields, zap.String("kind", failureKind(err)), zap.Error(err))...)
		return nil
	}

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+readingSavepoint); err != nil {
		return eris.Wrapf(err, "open savepoint for %s", r.Code3)
	}

	stored, err := storeReading(ctx, repos, r.Code3, reading)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return eris.Wrap(ctxErr, "temperature ingestion interrupted")
		}
		// A failed statement must not poison the run transaction
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+readingSavepoint); rbErr != nil {
			return eris.Wrapf(rbErr, "roll back savepoint for %s", r.Code3)
		}
		if err := releaseSavepoint(ctx, tx, r.Code3); err != nil {
			return err
		}
		result.Failed++
		log.Error("Storing reading failed", append(fields, zap.String("kind", "store"), zap.Error(err))...)
		return nil
	}
	if err := releaseSavepoint(ctx, tx, r.Code3); err != nil {
		return err
	}

	if !stored {
		result.Skipped++
		log.Warn("Country not found in store", fields...)
		return nil
	}
	result.Inserted++
	return nil
}

// storeReading resolves code3 and inserts the reading for it. It reports
// false without an error when the country is not in the store.
func storeReading(ctx context.Context, repos *repository.Container, code3 string, reading *model.Reading) (bool, error) {
	country, err := repos.Country.FindByCode3(ctx, code3)
	if err != nil {
		return false, eris.Wrapf(err, "resolve country %s", code3)
	}
	if country == nil {
		return false, nil
	}

	reading.CountryID = country.ID
	if err := repos.Temperature.Insert(ctx, reading); err != nil {
		return false, eris.Wrapf(err, "store reading for %s", code3)
	}
	return true, nil
}

func releaseSavepoint(ctx context.Context, tx *sqlx.Tx, code3 string) error {
	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+readingSavepoint); err != nil {
		return eris.Wrapf(err, "release savepoint for %s", code3)
	}
	return nil
}

func failureKind(err error) string {
	var perr *weather.ProviderError
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return "not_found"
	case errors.Is(err, weather.ErrMalformedResponse):
		return "malformed"
	case errors.As(err, &perr):
		return "provider"
	default:
		return "unknown"
	}
}
