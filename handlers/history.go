// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/estimation-lab/engine"
	"github.com/danielhkuo/estimation-lab/middleware"
	"github.com/danielhkuo/estimation-lab/models"
	"github.com/danielhkuo/estimation-lab/store"
)

type HistoryHandler struct {
	store  store.Store
	engine *engine.Engine
	now    func() time.Time
}

func NewHistoryHandler(st store.Store, eng *engine.Engine) *HistoryHandler {
	return &HistoryHandler{store: st, engine: eng, now: time.Now}
}

// GetHistory handles GET /sessions/{id}/history
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "get history")
		return
	}

	now := h.now()
	items := make([]models.HistoryEntry, 0, len(s.FinalizedItems))
	for _, item := range s.FinalizedItems {
		items = append(items, models.HistoryEntry{
			FinalizedItem: item,
			DecidedAgo:    humanize.RelTime(item.DecidedAt, now, "ago", "from now"),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.HistoryResponse{
		SessionID: s.ID,
		Items:     items,
	})
}

// GetReadiness handles GET /sessions/{id}/readiness
func (h *HistoryHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "get readiness")
		return
	}

	rd, err := h.engine.Readiness(s)
	if err != nil {
		writeError(w, err, "get readiness")
		return
	}

	missing := rd.MissingReasons
	if missing == nil {
		missing = []string{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.ReadinessResponse{
		Status:         rd.Status,
		CanFinalize:    rd.CanFinalize,
		MissingReasons: missing,
		WithinWindow:   rd.WithinWindow,
		AllVoted:       rd.AllVoted,
		Finalizable:    rd.Finalizable,
	})
}
