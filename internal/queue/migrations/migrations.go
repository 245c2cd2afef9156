// Package migrations applies the rebuild queue schema.
//
// It contains a custom SQLite migration driver compatible with
// ncruces/go-sqlite3 (CGO-free). The stock golang-migrate/v4 sqlite3
// driver imports mattn/go-sqlite3, which registers the same "sqlite3"
// driver name and collides with ncruces; the driver here implements
// database.Driver against a plain sql.DB instead.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var migrationFS embed.FS

// FS exposes the embedded migration files, mainly for tests.
func FS() fs.FS {
	return migrationFS
}

// Run applies all pending migrations to the database. A database that
// is already current is not an error.
func Run(db *sql.DB) error {
	source, err := iofs.New(migrationFS, ".")
	if err != nil {
		return err
	}
	driver, err := WithInstance(db, &Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
