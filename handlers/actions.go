// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/estimation-lab/engine"
	"github.com/danielhkuo/estimation-lab/metrics"
	"github.com/danielhkuo/estimation-lab/middleware"
	"github.com/danielhkuo/estimation-lab/models"
	"github.com/danielhkuo/estimation-lab/store"
)

type ActionHandler struct {
	store  store.Store
	engine *engine.Engine
	events Publisher
}

func NewActionHandler(st store.Store, eng *engine.Engine, events Publisher) *ActionHandler {
	return &ActionHandler{store: st, engine: eng, events: events}
}

// ApplyAction handles POST /sessions/{id}/actions
func (h *ActionHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	body, err := middleware.ReadBody(r)
	r.Body.Close()
	if err != nil {
		if errors.Is(err, middleware.ErrBodyTooLarge) {
			writeError(w, err, "apply action")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	action, err := engine.DecodeAction(body)
	if err != nil {
		metrics.RecordAction(r.Context(), "invalid", outcomeOf(err))
		writeError(w, err, "apply action")
		return
	}

	h.apply(w, r, action)
}

// Vote handles POST /sessions/{id}/vote
func (h *ActionHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.ParticipantID) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant_id is required")
		return
	}

	h.apply(w, r, engine.Vote{
		Base:          engine.Base{ActorParticipantID: req.ParticipantID},
		ParticipantID: req.ParticipantID,
		Value:         req.Value,
	})
}

// apply runs one read-apply-write cycle. A stale write surfaces as 409 and
// the client refetches; nothing is retried here.
func (h *ActionHandler) apply(w http.ResponseWriter, r *http.Request, action engine.Action) {
	ctx := r.Context()
	sessionID := r.PathValue("id")

	s, err := h.store.Get(ctx, sessionID)
	if err != nil {
		metrics.RecordAction(ctx, action.Name(), outcomeOf(err))
		writeError(w, err, "apply action")
		return
	}

	next, err := h.engine.Apply(s, action)
	if err != nil {
		metrics.RecordAction(ctx, action.Name(), outcomeOf(err))
		writeError(w, err, "apply action")
		return
	}

	if err := h.store.Put(ctx, next); err != nil {
		metrics.RecordAction(ctx, action.Name(), outcomeOf(err))
		writeError(w, err, "apply action")
		return
	}

	metrics.RecordAction(ctx, action.Name(), metrics.OutcomeOK)
	if action.Name() == engine.ActionFinalizeConfirm {
		metrics.RecordFinalized(ctx)
	}
	publish(h.events, models.EventSessionUpdated, next, action.Name(), action.Actor())

	slog.Info("action applied",
		"session_id", next.ID,
		"action", action.Name(),
		"actor", action.Actor(),
		"version", next.Version,
	)
	middleware.JSONResponse(w, http.StatusOK, next)
}

// outcomeOf names an error for the actions metric.
func outcomeOf(err error) string {
	var engErr *engine.Error
	switch {
	case errors.As(err, &engErr):
		return string(engErr.Kind)
	case errors.Is(err, store.ErrNotFound):
		return string(engine.KindNotFound)
	case errors.Is(err, store.ErrConflict):
		return string(engine.KindConflict)
	default:
		return "INTERNAL"
	}
}
