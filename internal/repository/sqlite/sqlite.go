// Package sqlite implements the resource repositories on an embedded
// SQLite database through database/sql. modernc.org/sqlite is a pure Go
// driver, so the binary stays CGo-free and cross-compiles anywhere.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DB wraps the connection pool. It owns the schema migrations and is the
// only shared mutable resource in the process; database/sql serializes
// access, the layers above hold no locks.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at path and migrates the schema.
func New(path string) (*DB, error) {
	// Pragmas go through the DSN so every pooled connection gets them; a
	// plain Exec would only configure whichever connection it ran on. WAL
	// keeps readers unblocked during writes, foreign keys are off by
	// default in SQLite and the cascade rules depend on them.
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			user_name    TEXT NOT NULL,
			email        TEXT NOT NULL UNIQUE,
			phone        TEXT NOT NULL UNIQUE,
			zipcode      TEXT NOT NULL,
			country_code TEXT NOT NULL,
			created_date DATETIME NOT NULL,
			updated_date DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id         TEXT PRIMARY KEY,
			note       TEXT NOT NULL,
			card_color TEXT NOT NULL DEFAULT '',
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			date       DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL UNIQUE,
			created_date DATETIME NOT NULL,
			updated_date DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS note_categories (
			id           TEXT PRIMARY KEY,
			note_id      TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
			category_id  TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			created_date DATETIME NOT NULL,
			updated_date DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_note_categories_note_id ON note_categories(note_id)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id            TEXT PRIMARY KEY,
			profile_name  TEXT NOT NULL,
			profile_image TEXT NOT NULL DEFAULT '',
			created_date  DATETIME NOT NULL,
			updated_date  DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS query_runs (
			id               TEXT PRIMARY KEY,
			query            TEXT NOT NULL,
			safe             INTEGER NOT NULL DEFAULT 0,
			is_executed      INTEGER NOT NULL DEFAULT 0,
			execution_result TEXT,
			executed_at      DATETIME,
			created_date     DATETIME NOT NULL,
			updated_date     DATETIME NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}
