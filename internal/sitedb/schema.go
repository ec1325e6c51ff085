// Package sitedb provides the SQLite-backed page and file repositories the
// link helpers resolve against.
package sitedb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
	uid       INTEGER PRIMARY KEY,
	pid       INTEGER NOT NULL DEFAULT 0,
	title     TEXT    NOT NULL DEFAULT '',
	nav_title TEXT    NOT NULL DEFAULT '',
	hidden    INTEGER NOT NULL DEFAULT 0,
	deleted   INTEGER NOT NULL DEFAULT 0,
	l18n_cfg  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS pages_language_overlay (
	pid              INTEGER NOT NULL,
	sys_language_uid INTEGER NOT NULL,
	title            TEXT    NOT NULL DEFAULT '',
	nav_title        TEXT    NOT NULL DEFAULT '',
	hidden           INTEGER NOT NULL DEFAULT 0,
	deleted          INTEGER NOT NULL DEFAULT 0,
	UNIQUE(pid, sys_language_uid)
);

CREATE TABLE IF NOT EXISTS sys_file (
	uid        INTEGER PRIMARY KEY,
	identifier TEXT    NOT NULL,
	name       TEXT    NOT NULL DEFAULT '',
	mime_type  TEXT    NOT NULL DEFAULT '',
	size       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_pages_pid ON pages(pid);
CREATE INDEX IF NOT EXISTS idx_overlay_pid ON pages_language_overlay(pid);
`

// Option configures a DB.
type Option func(*DB)

// WithHideIfNotTranslatedByDefault inverts the "hide if not translated" page
// flag, so untranslated pages are hidden unless the flag is set.
func WithHideIfNotTranslatedByDefault() Option {
	return func(db *DB) { db.hideUntranslated = true }
}

// WithPublicBase sets the URL prefix for file public URLs.
func WithPublicBase(base string) Option {
	return func(db *DB) {
		if base != "" {
			db.publicBase = base
		}
	}
}

// DB wraps a sql.DB with page and file lookups.
type DB struct {
	conn             *sql.DB
	hideUntranslated bool
	publicBase       string
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string, opts ...Option) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sitedb: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sitedb: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sitedb: apply schema: %w", err)
	}
	db := &DB{conn: conn, publicBase: "/fileadmin"}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
