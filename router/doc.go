// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the estimation API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{Store: st, Hub: hub, Metrics: m, Config: cfg})

# Endpoints

Health:

	GET /health

Sessions:

	POST   /sessions                - Create session (returns facilitator_key)
	GET    /sessions/{id}           - Snapshot
	DELETE /sessions/{id}           - Delete (requires X-Facilitator-Key)
	POST   /sessions/join           - Join by six digit code
	POST   /sessions/{id}/self-join - Join by id
	GET    /sessions/by-code/{code} - Look up id by code
	GET    /sessions/by-slug/{slug} - Look up id by join slug

Rounds:

	POST /sessions/{id}/actions   - Action envelope
	POST /sessions/{id}/vote      - Cast or clear a vote
	GET  /sessions/{id}/readiness - Outlier reasons and finalize window
	GET  /sessions/{id}/history   - Finalized items

Realtime and operations:

	GET /realtime?sessionId={id} - WebSocket event stream
	GET /metrics                 - Prometheus scrape (when configured)

# Handler Initialization

The router creates handler instances with dependency injection:

	sessionHandler := handlers.NewSessionHandler(d.Store, d.Engine, d.Hub, d.Config)
	actionHandler := handlers.NewActionHandler(d.Store, d.Engine, d.Hub)
	historyHandler := handlers.NewHistoryHandler(d.Store, d.Engine)

The hub doubles as the handlers' event publisher and the realtime
handler's subscription source, so every accepted write reaches subscribers.
*/
package router
