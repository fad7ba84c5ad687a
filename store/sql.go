// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/danielhkuo/estimation-lab/db"
	"github.com/danielhkuo/estimation-lab/models"
)

// SQLStore keeps each session as a JSON document in estimation_session.
// Both dialects use $n placeholders, numbered in order of appearance.
type SQLStore struct {
	db      *sql.DB
	dialect string
	opts    options
}

// OpenSQL connects to a PostgreSQL or SQLite database and creates the schema.
func OpenSQL(ctx context.Context, dialect, dsn string, opts ...Option) (*SQLStore, error) {
	var driver string
	switch dialect {
	case db.DialectPostgres:
		driver = "postgres"
	case db.DialectSQLite:
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", dialect, err)
	}
	if dialect == db.DialectSQLite {
		// a single writer avoids SQLITE_BUSY between pooled connections
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s db: %w", dialect, err)
	}
	if err := db.CreateSchema(conn, dialect); err != nil {
		conn.Close()
		return nil, err
	}
	return NewSQL(conn, dialect, opts...), nil
}

// NewSQL wraps an open connection whose schema already exists.
func NewSQL(conn *sql.DB, dialect string, opts ...Option) *SQLStore {
	return &SQLStore{db: conn, dialect: dialect, opts: buildOptions(opts)}
}

// DB exposes the connection for health checks.
func (st *SQLStore) DB() *sql.DB { return st.db }

func (st *SQLStore) Create(ctx context.Context, s *models.Session) error {
	now := st.opts.now()
	_, err := st.db.ExecContext(ctx, `
		DELETE FROM estimation_session
		WHERE expires_at IS NOT NULL AND expires_at <= $1
	`, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}

	s.Version = 1
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = st.db.ExecContext(ctx, `
		INSERT INTO estimation_session (id, code, slug, data, version, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.ID, s.Code, nullString(s.Slug), string(data), s.Version, expiresAtMillis(s))
	if err != nil {
		s.Version = 0
		if isUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (st *SQLStore) Get(ctx context.Context, id string) (*models.Session, error) {
	row := st.db.QueryRowContext(ctx, `SELECT data, version FROM estimation_session WHERE id = $1`, id)
	return st.scan(row)
}

func (st *SQLStore) FindByCode(ctx context.Context, code string) (*models.Session, error) {
	row := st.db.QueryRowContext(ctx, `SELECT data, version FROM estimation_session WHERE code = $1`, code)
	return st.scan(row)
}

func (st *SQLStore) FindBySlug(ctx context.Context, slug string) (*models.Session, error) {
	row := st.db.QueryRowContext(ctx, `SELECT data, version FROM estimation_session WHERE slug = $1`, slug)
	return st.scan(row)
}

func (st *SQLStore) Put(ctx context.Context, s *models.Session) error {
	if expired(s, st.opts.now()) {
		return ErrNotFound
	}

	next := s.Clone()
	next.Version = s.Version + 1
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	res, err := st.db.ExecContext(ctx, `
		UPDATE estimation_session
		SET data = $1, version = $2, expires_at = $3
		WHERE id = $4 AND version = $5
	`, string(data), next.Version, expiresAtMillis(next), s.ID, s.Version)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		var version int64
		err := st.db.QueryRowContext(ctx, `SELECT version FROM estimation_session WHERE id = $1`, s.ID).Scan(&version)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check session version: %w", err)
		}
		return ErrConflict
	}

	s.Version = next.Version
	return nil
}

func (st *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := st.db.ExecContext(ctx, `DELETE FROM estimation_session WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (st *SQLStore) Close() error {
	return st.db.Close()
}

func (st *SQLStore) scan(row *sql.Row) (*models.Session, error) {
	var (
		data    []byte
		version int64
	)
	if err := row.Scan(&data, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.Version = version
	if expired(&s, st.opts.now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expiresAtMillis(s *models.Session) sql.NullInt64 {
	if s.ExpiresAt == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: s.ExpiresAt.UnixMilli(), Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
