// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/estimation-lab/engine"
	"github.com/danielhkuo/estimation-lab/middleware"
	"github.com/danielhkuo/estimation-lab/models"
	"github.com/danielhkuo/estimation-lab/store"
)

// Publisher fans session events out to realtime subscribers.
type Publisher interface {
	Publish(sessionID string, ev models.Event) int
}

// writeError maps engine, store and body errors to an HTTP response.
// Anything unrecognised is logged and reported as a 500 with a generic message.
func writeError(w http.ResponseWriter, err error, op string) {
	var engErr *engine.Error
	switch {
	case errors.As(err, &engErr):
		status := engErr.Kind.HTTPStatus()
		middleware.JSONResponse(w, status, models.ErrorResponse{
			Error:   string(engErr.Kind),
			Message: engErr.Message,
			Missing: engErr.Missing,
		})
	case errors.Is(err, store.ErrNotFound):
		middleware.JSONResponse(w, http.StatusNotFound, models.ErrorResponse{
			Error:   string(engine.KindNotFound),
			Message: "session not found",
		})
	case errors.Is(err, store.ErrConflict):
		middleware.JSONResponse(w, http.StatusConflict, models.ErrorResponse{
			Error:   string(engine.KindConflict),
			Message: "session changed, refetch and retry",
		})
	case errors.Is(err, store.ErrExists):
		middleware.JSONResponse(w, http.StatusConflict, models.ErrorResponse{
			Error:   string(engine.KindConflict),
			Message: "join code already in use",
		})
	case errors.Is(err, middleware.ErrBodyTooLarge):
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		slog.Error("request failed", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+op)
	}
}

func publish(p Publisher, evType string, s *models.Session, action, actor string) {
	if p == nil {
		return
	}
	p.Publish(s.ID, models.Event{
		Type:               evType,
		SessionID:          s.ID,
		Action:             action,
		ActorParticipantID: actor,
		Version:            s.Version,
		At:                 time.Now().UTC(),
	})
}
