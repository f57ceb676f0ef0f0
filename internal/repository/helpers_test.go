package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alexivanou/climate-api/internal/config"
	"github.com/alexivanou/climate-api/internal/database"
	"github.com/alexivanou/climate-api/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// newTestDB returns a migrated, isolated in-memory database
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	cfg := config.DBConfig{
		Type:          config.DBTypeMemory,
		Name:          fmt.Sprintf("repo_%d", rng.Int()),
		MigrationsDir: "../../migrations",
	}

	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, cfg))
	return db
}

func seedCountries(t *testing.T, repos *Container, countries ...model.Country) {
	t.Helper()
	n, err := repos.Country.InsertCountries(context.Background(), countries)
	require.NoError(t, err)
	require.Equal(t, len(countries), n)
}

func mustFind(t *testing.T, repos *Container, code3 string) *model.Country {
	t.Helper()
	c, err := repos.Country.FindByCode3(context.Background(), code3)
	require.NoError(t, err)
	require.NotNil(t, c, code3)
	return c
}

func ptr[T any](v T) *T {
	return &v
}
