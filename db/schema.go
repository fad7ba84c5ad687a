// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Supported SQL dialects
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	var ddl string
	switch dialect {
	case DialectPostgres:
		ddl = postgresSchema
	case DialectSQLite:
		ddl = sqliteSchema
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	_, err := db.Exec(ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// DropSchema removes every table. Used by tests.
func DropSchema(db *sql.DB) error {
	_, err := db.Exec(`DROP TABLE IF EXISTS estimation_session`)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

const postgresSchema = `
-- Sessions: one row per session, the whole snapshot in data
CREATE TABLE IF NOT EXISTS estimation_session (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    slug TEXT UNIQUE,
    data JSONB NOT NULL,
    version BIGINT NOT NULL,
    expires_at BIGINT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_estimation_session_expires_at ON estimation_session(expires_at);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS estimation_session (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    slug TEXT UNIQUE,
    data TEXT NOT NULL,
    version INTEGER NOT NULL,
    expires_at INTEGER,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_estimation_session_expires_at ON estimation_session(expires_at);
`
