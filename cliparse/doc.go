// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite (default), postgres, etcd or memory
  - DatabaseURL: DSN for the SQL backends (sqlite default: estimation.db)
  - FacilitatorKeySalt: Secret for facilitator key HMAC (required)
  - BaseURL: Public URL used to build join links
  - EtcdEndpoints, EtcdDialTimeout: etcd backend connection
  - SessionTTL: Default lifetime of new sessions (0 = never expire)

# Sources

Values are resolved in increasing precedence:

	defaults → .env file → environment → CLI flags

The .env file is optional and never overrides variables already set in the
environment.

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	FACILITATOR_KEY_SALT → -facilitator-salt
	BASE_URL             → -base-url
	ETCD_ENDPOINTS       → -etcd-endpoints
	ETCD_DIAL_TIMEOUT
	SESSION_TTL          → -session-ttl

# Validation

ParseFlags returns an error if:

  - FACILITATOR_KEY_SALT is missing
  - the postgres backend has no DATABASE_URL
  - the database type is unknown
*/
package cliparse
