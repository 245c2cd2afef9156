// Package queue persists the rebuild queue and its trigger event
// history in SQLite.
package queue

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilnworks/kiln/internal/log"
	"github.com/kilnworks/kiln/internal/queue/migrations"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNoDatabase is returned by OpenReadOnly when no database file
// exists yet; read commands report an empty queue instead of creating
// state as an unprivileged user.
var ErrNoDatabase = errors.New("no rebuild queue database")

// DB owns the SQLite connection for the rebuild queue.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the queue database, applies pragmas
// and migrations, and returns a handle. The parent directory is created
// when missing.
func Open(path string) (*DB, error) {
	log.Debug(log.CatDB, "opening database", "path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := configure(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := migrations.Run(conn); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatDB, "migrations failed", err, "path", path)
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// OpenReadOnly opens an existing queue database without write access,
// so list and query work for unprivileged users. Returns ErrNoDatabase
// when the file does not exist.
func OpenReadOnly(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoDatabase
		}
		return nil, fmt.Errorf("checking database: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening database read-only: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening database read-only: %w", err)
	}
	return &DB{conn: conn, path: path}, nil
}

// configure applies connection pragmas. Journal mode stays DELETE
// rather than WAL: WAL needs write access to the directory for -shm
// and -wal files, which would break read-only access for non-root
// users.
func configure(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=DELETE",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

// Close releases the connection.
func (db *DB) Close() error {
	if db.conn != nil {
		log.Debug(log.CatDB, "closing database", "path", db.path)
		return db.conn.Close()
	}
	return nil
}

// Repository returns a queue repository bound to this connection.
// Events older than retentionDays are pruned opportunistically after
// writes; zero disables pruning.
func (db *DB) Repository(retentionDays int) *Repository {
	return &Repository{conn: db.conn, retentionDays: retentionDays}
}

// Connection exposes the raw connection for tests.
func (db *DB) Connection() *sql.DB {
	return db.conn
}
