package database

import (
	"context"
	"fmt"

	"github.com/alexivanou/climate-api/internal/config"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
)

// DriverName returns the database/sql driver registered for the DB type
func DriverName(dbType config.DBType) string {
	switch dbType {
	case config.DBTypeMemory:
		return SQLiteDriver
	case config.DBTypeMySQL:
		return "mysql"
	default:
		return "pgx"
	}
}

// Connect creates a database connection based on configuration using sqlx
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, DriverName(cfg.Type), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection keeps the shared in-memory database alive and
	// avoids shared-cache table locks.
	if cfg.IsMemory() {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}
