package database

import (
	"errors"
	"fmt"

	"github.com/alexivanou/climate-api/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
)

// NewMigrate builds a migrate instance for the configured dialect.
// In-memory SQLite is migrated through the open handle because a second
// connection string would address a different database.
func NewMigrate(db *sqlx.DB, cfg config.DBConfig) (*migrate.Migrate, error) {
	sourcePath := cfg.MigrationsSource()

	if cfg.IsMemory() {
		if db == nil {
			return nil, errors.New("in-memory database requires an open handle")
		}
		driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
		if err != nil {
			return nil, fmt.Errorf("could not create sqlite driver: %w", err)
		}
		m, err := migrate.NewWithDatabaseInstance(sourcePath, "sqlite3", driver)
		if err != nil {
			return nil, fmt.Errorf("could not create migrate instance: %w", err)
		}
		return m, nil
	}

	m, err := migrate.New(sourcePath, cfg.MigrationURL())
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending up migrations
func Migrate(db *sqlx.DB, cfg config.DBConfig) error {
	m, err := NewMigrate(db, cfg)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
