// Package database is the SQLite backed event and comment store.
package database

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is written to PRAGMA user_version once the schema is applied.
const schemaVersion = 2

// migrations upgrade a database created at an older schema version; the key
// is the version the statements bring it to. schema.sql always describes the
// latest layout, so a fresh database skips them.
var migrations = map[int][]string{
	2: {
		`ALTER TABLE events ADD COLUMN time_window_type TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE events ADD COLUMN time_window_value TEXT NOT NULL DEFAULT ''`,
	},
}

// connParams are passed to the driver in the DSN so that every pooled
// connection gets them, not just the first one.
const connParams = "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL"

// dsn appends connParams to path. The driver strips the query string from
// plain paths and ":memory:" before opening the file.
func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + connParams
	}
	return path + "?" + connParams
}

// Store implements events.Store and events.CommentStore on SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// only lives as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := loadSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("database: opened %s (schema v%d)", path, schemaVersion)
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SchemaVersion reports the schema version recorded in the database.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// loadSchema executes the embedded schema and then any migrations the
// database has not seen yet. Every schema statement is IF NOT EXISTS, so it
// is safe on an existing database.
func loadSchema(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read user_version: %w", err)
	}
	if current > schemaVersion {
		return fmt.Errorf("database schema v%d is newer than supported v%d", current, schemaVersion)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if current > 0 {
		for v := current + 1; v <= schemaVersion; v++ {
			for _, stmt := range migrations[v] {
				if _, err := db.Exec(stmt); err != nil {
					return fmt.Errorf("failed to migrate to v%d: %w", v, err)
				}
			}
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// storeErr maps driver errors onto domain errors.
func storeErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.New(apperrors.CodeNotFound, what+" not found")
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return apperrors.Wrap(apperrors.CodeConflict, what+" already exists", err)
	}
	return apperrors.Wrap(apperrors.CodeInternal, "database error", err)
}
