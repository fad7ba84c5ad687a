// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the estimation-lab API server.

estimation-lab runs planning poker sessions. A facilitator starts a round,
participants vote with Fibonacci or T-shirt cards, the facilitator reveals,
outliers explain themselves, and the agreed value is recorded once the votes
sit inside a narrow window.

# Starting the Server

The server reads environment variables, an optional .env file and CLI flags:

	FACILITATOR_KEY_SALT=change-me go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -facilitator-salt change-me

# Configuration

Required settings:

  - FACILITATOR_KEY_SALT (-facilitator-salt): Secret for facilitator key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres, etcd or memory (default: sqlite)
  - DATABASE_URL (-d): DSN; sqlite defaults to estimation.db
  - ETCD_ENDPOINTS (-etcd-endpoints): comma separated (default: localhost:2379)
  - BASE_URL (-base-url): Prefix for join links
  - SESSION_TTL (-session-ttl): Default session lifetime, 0 for none

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (sessions, actions, history)
  - router: Route definitions using Go 1.22+ routing
  - engine: Action validation and state transitions on session snapshots
  - rules, deck: Outlier, finalize and card deck rules
  - store: Snapshot persistence (memory, SQL, etcd) with version checks
  - realtime: In-process event hub and WebSocket endpoint
  - metrics: OpenCensus views exported for Prometheus
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and snapshot types
  - auth: Facilitator keys, join codes and slugs
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
