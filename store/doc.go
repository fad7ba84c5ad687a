// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists session snapshots.

# Backends

  - MemoryStore: in-process maps, for tests and single-node demos
  - SQLStore: PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite), one JSON
    row per session
  - EtcdStore: one key per session plus code and slug index keys

	st, err := store.OpenSQL(ctx, db.DialectSQLite, "estimation.db")

# Optimistic Concurrency

Every session carries a version. Put writes only if the caller's version
still matches the stored one:

	s, _ := st.Get(ctx, id)
	next, err := eng.Apply(s, action)
	err = st.Put(ctx, next) // ErrConflict if someone else wrote first

A conflicting writer refetches and retries the action itself.

# Expiry

Sessions with ExpiresAt in the past read as ErrNotFound. SQL backends purge
expired rows on Create; etcd binds the keys to a lease.
*/
package store
