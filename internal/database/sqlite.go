package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
)

// SQLiteDriver is the database/sql driver used for the in-memory store.
// Every connection it opens enforces foreign keys and provides FoldFunc.
const SQLiteDriver = "sqlite3_climate"

// FoldFunc is the SQL function that applies FoldCase to a column.
// SQLite's own LOWER only folds ASCII letters.
const FoldFunc = "casefold"

func init() {
	sqlx.BindDriver(SQLiteDriver, sqlx.QUESTION)
	sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if _, err := conn.Exec("PRAGMA foreign_keys = ON", nil); err != nil {
				return err
			}
			return conn.RegisterFunc(FoldFunc, FoldCase, true)
		},
	})
}

// FoldCase returns the Unicode case folding of s, used for
// case-insensitive name matching.
func FoldCase(s string) string {
	return cases.Fold().String(s)
}
