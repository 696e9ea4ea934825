package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/images/*.sql
var imageMigrationFiles embed.FS

//go:embed migrations/ads/*.sql
var adMigrationFiles embed.FS

// MigrationSet identifies one of the embedded migration directories.
// Each service owns an independent database with its own schema history.
type MigrationSet struct {
	name string
	fs   embed.FS
	dir  string
}

// ImageMigrations is the schema for the generic image service database.
var ImageMigrations = MigrationSet{name: "images", fs: imageMigrationFiles, dir: "migrations/images"}

// AdMigrations is the schema for the ad service database (companies + ads).
var AdMigrations = MigrationSet{name: "ads", fs: adMigrationFiles, dir: "migrations/ads"}

// Name returns the migration set identifier.
func (s MigrationSet) Name() string { return s.name }

// MigrateUp applies all pending up migrations from the embedded set.
// Returns nil if there are no pending migrations (ErrNoChange is handled
// gracefully).
//
// The migrations are embedded in the binary, so the runner does not depend
// on the working directory at deploy time.
//
// Example:
//
//	if err := db.MigrateUp(conn, db.ImageMigrations); err != nil {
//	    log.Fatal(err)
//	}
func MigrateUp(conn *sql.DB, set MigrationSet) error {
	m, err := newMigrator(conn, set)
	if err != nil {
		return fmt.Errorf("db: failed to create migrator for %s: %w", set.name, err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			// No pending migrations is not an error
			return nil
		}
		return fmt.Errorf("db: failed to apply %s migrations: %w", set.name, err)
	}

	return nil
}

// newMigrator builds a migrate.Migrate over the shared connection using the
// iofs source driver. The caller keeps ownership of conn; we deliberately do
// not call m.Close because it would close the underlying connection.
func newMigrator(conn *sql.DB, set MigrationSet) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(set.fs, set.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, set.name, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}
