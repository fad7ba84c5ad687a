// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/estimation-lab/cliparse"
	"github.com/danielhkuo/estimation-lab/engine"
	"github.com/danielhkuo/estimation-lab/handlers"
	"github.com/danielhkuo/estimation-lab/middleware"
	"github.com/danielhkuo/estimation-lab/realtime"
	"github.com/danielhkuo/estimation-lab/store"
)

// Deps are the shared services behind the routes. Engine and Hub get
// defaults when nil; /metrics is only mounted when Metrics is set.
type Deps struct {
	Store   store.Store
	Engine  *engine.Engine
	Hub     *realtime.Hub
	Metrics http.Handler
	Config  cliparse.Config
}

func NewRouter(d Deps) *http.ServeMux {
	if d.Engine == nil {
		d.Engine = engine.New()
	}
	if d.Hub == nil {
		d.Hub = realtime.NewHub(realtime.DefaultBuffer)
	}

	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(d.Store, d.Engine, d.Hub, d.Config)
	actionHandler := handlers.NewActionHandler(d.Store, d.Engine, d.Hub)
	historyHandler := handlers.NewHistoryHandler(d.Store, d.Engine)
	realtimeHandler := realtime.NewHandler(d.Hub, d.Store)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session lifecycle
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("DELETE /sessions/{id}", middleware.WithLogging(sessionHandler.DeleteSession))
	mux.HandleFunc("POST /sessions/join", middleware.WithLogging(sessionHandler.JoinByCode))
	mux.HandleFunc("POST /sessions/{id}/self-join", middleware.WithLogging(sessionHandler.SelfJoin))
	mux.HandleFunc("GET /sessions/by-code/{code}", middleware.WithLogging(sessionHandler.LookupByCode))
	mux.HandleFunc("GET /sessions/by-slug/{slug}", middleware.WithLogging(sessionHandler.LookupBySlug))

	// Round actions
	mux.HandleFunc("POST /sessions/{id}/actions", middleware.WithLogging(actionHandler.ApplyAction))
	mux.HandleFunc("POST /sessions/{id}/vote", middleware.WithLogging(actionHandler.Vote))

	// Read models
	mux.HandleFunc("GET /sessions/{id}/readiness", middleware.WithLogging(historyHandler.GetReadiness))
	mux.HandleFunc("GET /sessions/{id}/history", middleware.WithLogging(historyHandler.GetHistory))

	// Realtime subscription
	mux.HandleFunc("GET /realtime", middleware.WithLogging(realtimeHandler.ServeHTTP))

	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("estimation-lab API v1"))
	})

	return mux
}
