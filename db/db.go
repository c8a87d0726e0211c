// ABOUTME: Database connection management and initialization
// ABOUTME: Opens SQLite with WAL mode and foreign keys, then applies the schema
package db

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const dsnOptions = "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"

func OpenDatabase(path string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+dsnOptions)
	if err != nil {
		return nil, err
	}

	// One connection: SQLite serializes writers anyway, and a single
	// connection keeps foreign_keys and WAL settings on every statement.
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
