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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryRepository_InsertAndFind(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db, config.DBTypeMemory)
	ctx := context.Background()

	seedCountries(t, repos,
		model.Country{Code2: "FR", Code3: "FRA", Name: "France", Capital: "Paris", Region: "Europe", Lat: ptr(46.0), Lon: ptr(2.0), IsMember: true},
		model.Country{Code2: "AQ", Code3: "ATA", Name: "Antarctica", Region: "Antarctic"},
	)

	t.Run("FindByCode3", func(t *testing.T) {
		c, err := repos.Country.FindByCode3(ctx, "FRA")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.NotZero(t, c.ID)
		assert.Equal(t, "France", c.Name)
		assert.Equal(t, "Paris", c.Capital)
		assert.True(t, c.IsMember)
		require.NotNil(t, c.Lat)
		assert.Equal(t, 46.0, *c.Lat)
	})

	t.Run("Nullable coordinates", func(t *testing.T) {
		c := mustFind(t, repos, "ATA")
		assert.Nil(t, c.Lat)
		assert.Nil(t, c.Lon)
		assert.False(t, c.IsMember)
	})

	t.Run("Unknown code", func(t *testing.T) {
		c, err := repos.Country.FindByCode3(ctx, "XXX")
		require.NoError(t, err)
		assert.Nil(t, c)
	})
}

func TestCountryRepository_InsertCountries_Empty(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db, config.DBTypeMemory)

	n, err := repos.Country.InsertCountries(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCountryRepository_InsertCountries_Chunked(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db, config.DBTypeMemory)

	countries := make([]model.Country, 0, 120)
	for i := 0; i < 120; i++ {
		countries = append(countries, model.Country{Code3: fmt.Sprintf("C%02d", i), Name: fmt.Sprintf("Country %d", i)})
	}

	n, err := repos.Country.InsertCountries(context.Background(), countries)
	require.NoError(t, err)
	assert.Equal(t, 120, n)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM countries"))
	assert.Equal(t, 120, count)
}

func TestCountryRepository_FindByCode3_FirstMatch(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db, config.DBTypeMemory)

	// Re-ingestion duplicates rows; the lowest id wins
	seedCountries(t, repos, model.Country{Code3: "DEU", Name: "Germany"})
	seedCountries(t, repos, model.Country{Code3: "DEU", Name: "Germany (copy)"})

	c := mustFind(t, repos, "DEU")
	assert.Equal(t, "Germany", c.Name)
}

func TestCountryRepository_FindByNameSubstring(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db, config.DBTypeMemory)
	ctx := context.Background()

	seedCountries(t, repos,
		model.Country{Code3: "NER", Name: "Niger"},
		model.Country{Code3: "NGA", Name: "Nigeria"},
		model.Country{Code3: "DEU", Name: "Germany"},
		model.Country{Code3: "ALA", Name: "Åland Islands"},
		model.Country{Code3: "CIV", Name: "Côte d'Ivoire"},
	)

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"case insensitive", "germ", "DEU"},
		{"upper case query", "GERMANY", "DEU"},
		{"first match by insertion order", "niger", "NER"},
		{"inner substring", "eria", "NGA"},
		{"non-ASCII capital", "Åland", "ALA"},
		{"non-ASCII lower case query", "åland", "ALA"},
		{"non-ASCII upper case query", "ÅLAND ISLANDS", "ALA"},
		{"non-ASCII inner letter", "CÔTE", "CIV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := repos.Country.FindByNameSubstring(ctx, tt.query)
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Equal(t, tt.expected, c.Code3)
		})
	}

	for _, query := range []string{"atlantis", "_", "%", "G_rmany", "!"} {
		t.Run("No match "+query, func(t *testing.T) {
			c, err := repos.Country.FindByNameSubstring(ctx, query)
			require.NoError(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%fra%", containsPattern("fra"))
	assert.Equal(t, "%!%!_!!%", containsPattern("%_!"))
}

func TestCountryRepository_FindByNameSubstring_LiteralWildcards(t *testing.T) {
	db := newTestDB(t)
	repos := NewRepositories(db, config.DBTypeMemory)

	seedCountries(t, repos,
		model.Country{Code3: "AAA", Name: "Plain"},
		model.Country{Code3: "BBB", Name: "Under_score 100%"},
	)

	c, err := repos.Country.FindByNameSubstring(context.Background(), "r_s")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "BBB", c.Code3)

	c, err = repos.Country.FindByNameSubstring(context.Background(), "100%")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "BBB", c.Code3)
}

func TestIsDatabaseEmpty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	empty, err := IsDatabaseEmpty(ctx, db)
	require.NoError(t, err)
	assert.True(t, empty)

	seedCountries(t, NewRepositories(db, config.DBTypeMemory), model.Country{Code3: "FRA", Name: "France"})

	empty, err = IsDatabaseEmpty(ctx, db)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestIsDatabaseEmpty_MissingTable(t *testing.T) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: fmt.Sprintf("unmigrated_%d", rng.Int())}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = IsDatabaseEmpty(context.Background(), db)
	assert.Error(t, err)
}
