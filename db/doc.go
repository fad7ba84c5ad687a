// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL session stores.

# Schema Creation

CreateSchema initializes all required tables for a dialect:

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - estimation_session: one row per session. The full snapshot is stored as
    JSON in data (JSONB on PostgreSQL, TEXT on SQLite); version backs
    optimistic concurrency.

code and slug are unique lookup keys. expires_at is a Unix millisecond
timestamp, NULL when the session never expires.
*/
package db
