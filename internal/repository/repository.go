package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexivanou/climate-api/internal/config"
	"github.com/alexivanou/climate-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// CountryRepository defines operations for countries
type CountryRepository interface {
	InsertCountries(ctx context.Context, countries []model.Country) (int, error)
	FindByCode3(ctx context.Context, code3 string) (*model.Country, error)
	FindByNameSubstring(ctx context.Context, query string) (*model.Country, error)
}

// BorderRepository defines operations for border edges
type BorderRepository interface {
	InsertEdges(ctx context.Context, countryID int64, neighborCodes []string) (int, error)
	NeighborsOf(ctx context.Context, countryID int64) ([]model.Neighbor, error)
}

// TemperatureRepository defines operations for weather readings
type TemperatureRepository interface {
	Insert(ctx context.Context, reading *model.Reading) error
	LatestFor(ctx context.Context, countryID int64) (*model.Reading, error)
	AllReadings(ctx context.Context) ([]model.ReadingView, error)
}

// RunRepository records finished temperature ingestion runs
type RunRepository interface {
	Record(ctx context.Context, run *model.IngestRun) error
	Latest(ctx context.Context) (*model.IngestRun, error)
}

// Container holds all repositories
type Container struct {
	Country     CountryRepository
	Border      BorderRepository
	Temperature TemperatureRepository
	Run         RunRepository
}

// NewRepositories creates repository implementations based on DB type.
// q is either the shared *sqlx.DB or a run-scoped *sqlx.Tx.
func NewRepositories(q sqlx.ExtContext, dbType config.DBType) *Container {
	if dbType == config.DBTypePostgreSQL {
		return &Container{
			Country:     &pgCountryRepository{db: q},
			Border:      &pgBorderRepository{db: q},
			Temperature: &pgTemperatureRepository{db: q},
			Run:         &pgRunRepository{db: q},
		}
	}

	// SQLite and MySQL share the question-mark dialect
	return &Container{
		Country:     &sqliteCountryRepository{db: q, fold: dbType == config.DBTypeMemory},
		Border:      &sqliteBorderRepository{db: q},
		Temperature: &sqliteTemperatureRepository{db: q},
		Run:         &sqliteRunRepository{db: q},
	}
}

// IsDatabaseEmpty reports whether no country has been ingested yet.
// It expects a migrated schema.
func IsDatabaseEmpty(ctx context.Context, q sqlx.QueryerContext) (bool, error) {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, "SELECT COUNT(*) FROM countries"); err != nil {
		return false, fmt.Errorf("count countries: %w", err)
	}
	return count == 0, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching s anywhere, with '!' as
// the escape character so that % and _ in s match literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func edgesFor(countryID int64, neighborCodes []string) []model.BorderEdge {
	edges := make([]model.BorderEdge, 0, len(neighborCodes))
	for _, code := range neighborCodes {
		edges = append(edges, model.BorderEdge{CountryID: countryID, NeighborCode3: code})
	}
	return edges
}

func views(readings []model.Reading) []model.ReadingView {
	out := make([]model.ReadingView, 0, len(readings))
	for _, r := range readings {
		out = append(out, r.View())
	}
	return out
}
