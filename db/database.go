package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// Database manages the lifecycle of one service database: it composes the
// SQLite connection (WAL mode) with the embedded migration runner.
//
// Usage:
//
//	database, err := db.NewDatabase("data/images.db", db.ImageMigrations)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer database.Close()
//
//	repo := db.NewImageRepository(database)
type Database struct {
	conn *sql.DB
	path string
}

// NewDatabase opens (creating if necessary) the database file at path and
// applies all pending migrations from the given set.
//
// The parent directory is created if it does not exist.
func NewDatabase(path string, set MigrationSet) (*Database, error) {
	if path == "" {
		return nil, fmt.Errorf("db: database path is required")
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("db: failed to create database directory %s: %w", dir, err)
		}
	}

	conn, err := NewSQLiteConnectionWithDefaults(path)
	if err != nil {
		return nil, err
	}

	if err := MigrateUp(conn, set); err != nil {
		conn.Close()
		return nil, err
	}

	return &Database{conn: conn, path: path}, nil
}

// Conn returns the underlying sql.DB for repositories.
func (d *Database) Conn() *sql.DB {
	return d.conn
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	if d == nil || d.conn == nil {
		return nil
	}
	return d.conn.Close()
}
