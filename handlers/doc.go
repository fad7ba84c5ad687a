// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the estimation API.

# Handler Types

Each handler is a struct with store, engine and event dependencies:

  - SessionHandler: create, fetch, delete, join and look up sessions
  - ActionHandler: the action envelope and the convenience vote route
  - HistoryHandler: finalized items and finalize readiness

Handlers are created via constructor functions:

	sessions := handlers.NewSessionHandler(st, eng, hub, cfg)
	actions := handlers.NewActionHandler(st, eng, hub)

# Sessions

	POST   /sessions                  → CreateSession (returns facilitator_key)
	GET    /sessions/{id}             → GetSession
	DELETE /sessions/{id}             → DeleteSession (X-Facilitator-Key)
	POST   /sessions/join             → JoinByCode
	POST   /sessions/{id}/self-join   → SelfJoin
	GET    /sessions/by-code/{code}   → LookupByCode
	GET    /sessions/by-slug/{slug}   → LookupBySlug

A session gets a random six digit join code unless the request supplies
one. Generated codes are retried on collision; a requested code that is
taken is a 409.

# Actions

Every mutation is one read-apply-write cycle:

	POST /sessions/{id}/actions → ApplyAction
	POST /sessions/{id}/vote    → Vote

The handler loads the snapshot, the engine validates and applies the action,
and the store writes it back only if nobody else wrote in between. A stale
write is a 409 and the client refetches. Successful writes publish a
session_updated event.

# Errors

Engine errors carry a kind that picks the status code:

	NOT_FOUND            404
	FORBIDDEN            403
	BAD_REQUEST          400
	PRECONDITION_FAILED  412
	CONFLICT             409

Bodies are models.ErrorResponse; missing_reasons is filled in when a
finalize is blocked on outlier reasons.
*/
package handlers
