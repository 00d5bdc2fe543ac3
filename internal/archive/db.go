// Package archive persists finished session snapshots to SQLite so past
// sessions can be listed and compared after the fact.
//
// The archive is strictly an export surface: the live monitor never reads
// from it, the tail cursor is never stored, and deleting the database loses
// nothing but history.
package archive

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB provides SQLite operations for the session archive.
type DB struct {
	db *sql.DB
}

// New opens (or creates) the archive database at dbPath. Use ":memory:" for
// tests.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("archive: open database: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: enable WAL mode: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// CreateSchema creates all tables and indexes.
func (d *DB) CreateSchema() error {
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("archive: create schema: %w", err)
	}
	return nil
}
