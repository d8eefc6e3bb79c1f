// Package store persists spaces, folders, notes and tags in SQLite.
//
// Every folder carries a denormalized pathname ("/" for a space's root
// folder, "/a/b" below it) and every note caches the pathname of its folder.
// All mutations keep those caches consistent with the parent_id chain inside
// a single transaction and bump a revision counter that readers use to detect
// change.
package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverCgo  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

var (
	ErrNotFound    = errors.New("not found")
	ErrCycle       = errors.New("folder cannot be moved into itself or a descendant")
	ErrExists      = errors.New("pathname already exists")
	ErrRootFolder  = errors.New("root folder cannot be changed")
	ErrInvalidName = errors.New("invalid name")
)

const timeFormat = time.RFC3339Nano

// Store handles SQLite operations for the note tree.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path using driver.
// An empty driver selects DriverCgo.
func Open(path, driver string) (*Store, error) {
	if driver == "" {
		driver = DriverCgo
	}
	if driver != DriverCgo && driver != DriverPure {
		return nil, fmt.Errorf("unknown sqlite driver %q", driver)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open(driver, dsn(path, driver))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: statements never interleave with open result sets and
	// the update loop is single-threaded anyway.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func dsn(path, driver string) string {
	if driver == DriverPure {
		return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL"
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);
INSERT OR IGNORE INTO meta (key, value) VALUES ('revision', 0);

CREATE TABLE IF NOT EXISTS spaces (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS folders (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    space_id TEXT NOT NULL,
    parent_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    pathname TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_folders_path ON folders(space_id, pathname);
CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(parent_id);

CREATE TABLE IF NOT EXISTS notes (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    space_id TEXT NOT NULL,
    folder_id TEXT NOT NULL,
    folder_pathname TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    bookmarked INTEGER NOT NULL DEFAULT 0,
    archived INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_space ON notes(space_id);
CREATE INDEX IF NOT EXISTS idx_notes_folder ON notes(folder_id);
CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at DESC);

CREATE TABLE IF NOT EXISTS tags (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    space_id TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_name ON tags(space_id, name);
`
	_, err := s.db.Exec(schema)
	return err
}

// Revision returns a counter bumped by every committed mutation, including
// mutations made by other processes sharing the file.
func (s *Store) Revision() (int64, error) {
	var rev int64
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'revision'`).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("query revision: %w", err)
	}
	return rev, nil
}

// withTx runs fn in a transaction and bumps the revision on success.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`UPDATE meta SET value = value + 1 WHERE key = 'revision'`); err != nil {
		tx.Rollback()
		return fmt.Errorf("bump revision: %w", err)
	}
	return tx.Commit()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// generateID creates an ID with the given prefix and 8 hex chars.
func generateID(prefix string) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(b), nil
}

func now() time.Time { return time.Now().UTC() }

func formatTime(t time.Time) string { return t.Format(timeFormat) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
