// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/estimation-lab/auth"
	"github.com/danielhkuo/estimation-lab/cliparse"
	"github.com/danielhkuo/estimation-lab/engine"
	"github.com/danielhkuo/estimation-lab/metrics"
	"github.com/danielhkuo/estimation-lab/middleware"
	"github.com/danielhkuo/estimation-lab/models"
	"github.com/danielhkuo/estimation-lab/store"
)

// joinCodeAttempts bounds retries when a generated join code is taken.
const joinCodeAttempts = 5

type SessionHandler struct {
	store  store.Store
	engine *engine.Engine
	events Publisher
	cfg    cliparse.Config
}

func NewSessionHandler(st store.Store, eng *engine.Engine, events Publisher, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{store: st, engine: eng, events: events, cfg: cfg}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		if errors.Is(err, middleware.ErrBodyTooLarge) {
			writeError(w, err, "create session")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.TTLSeconds != nil && *req.TTLSeconds < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ttl_seconds must not be negative")
		return
	}
	ttl := h.cfg.SessionTTL
	if req.TTLSeconds != nil {
		ttl = time.Duration(*req.TTLSeconds) * time.Second
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Session"
	}

	preferred := strings.TrimSpace(req.JoinCode)
	if preferred != "" && !auth.ValidJoinCode(preferred) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "join_code must be 6 digits")
		return
	}

	attempts := joinCodeAttempts
	if preferred != "" {
		attempts = 1
	}

	var s *models.Session
	for i := 0; i < attempts; i++ {
		code := preferred
		if code == "" {
			var err error
			code, err = auth.GenerateJoinCode()
			if err != nil {
				writeError(w, err, "create session")
				return
			}
		}

		next, err := h.engine.NewSession(engine.SessionParams{
			Title:    title,
			TeamName: req.TeamName,
			Method:   req.Method,
			Code:     code,
			TTL:      ttl,
		})
		if err != nil {
			writeError(w, err, "create session")
			return
		}
		next.Slug = auth.SessionSlug(next.TeamName, code)

		err = h.store.Create(r.Context(), next)
		if errors.Is(err, store.ErrExists) {
			slog.Warn("join code collision", "code", code, "attempt", i+1)
			continue
		}
		if err != nil {
			writeError(w, err, "create session")
			return
		}
		s = next
		break
	}
	if s == nil {
		writeError(w, store.ErrExists, "create session")
		return
	}

	metrics.RecordSessionCreated(r.Context())
	slog.Info("session created", "session_id", s.ID, "code", s.Code, "method", s.Method)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		ID:             s.ID,
		Code:           s.Code,
		TeamName:       s.TeamName,
		JoinURL:        strings.TrimRight(h.cfg.BaseURL, "/") + "/s/" + s.Slug,
		FacilitatorKey: auth.GenerateFacilitatorKey(s.ID, h.cfg.FacilitatorKeySalt),
	})
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "get session")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, s)
}

// DeleteSession handles DELETE /sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	key := r.Header.Get("X-Facilitator-Key")
	if err := auth.ValidateFacilitatorKey(sessionID, key, h.cfg.FacilitatorKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid facilitator key")
		return
	}

	s, err := h.store.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, err, "delete session")
		return
	}
	if err := h.store.Delete(r.Context(), sessionID); err != nil {
		writeError(w, err, "delete session")
		return
	}

	publish(h.events, models.EventSessionDeleted, s, "", "")
	slog.Info("session deleted", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// JoinByCode handles POST /sessions/join
func (h *SessionHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	var req models.JoinByCodeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	code := strings.TrimSpace(req.Code)
	if !auth.ValidJoinCode(code) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code must be 6 digits")
		return
	}

	s, err := h.store.FindByCode(r.Context(), code)
	if err != nil {
		writeError(w, err, "join session")
		return
	}

	next, participantID, err := h.join(r, s, req.Name)
	if err != nil {
		writeError(w, err, "join session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.JoinResponse{
		SessionID:     next.ID,
		ParticipantID: participantID,
		FacilitatorID: next.FacilitatorID,
	})
}

// SelfJoin handles POST /sessions/{id}/self-join
func (h *SessionHandler) SelfJoin(w http.ResponseWriter, r *http.Request) {
	var req models.SelfJoinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "join session")
		return
	}

	next, participantID, err := h.join(r, s, req.Name)
	if err != nil {
		writeError(w, err, "join session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.JoinResponse{
		SessionID:     next.ID,
		ParticipantID: participantID,
		FacilitatorID: next.FacilitatorID,
	})
}

func (h *SessionHandler) join(r *http.Request, s *models.Session, name string) (*models.Session, string, error) {
	next, participantID := h.engine.Join(s, name)
	if err := h.store.Put(r.Context(), next); err != nil {
		return nil, "", err
	}
	publish(h.events, models.EventSessionJoined, next, "", participantID)
	slog.Info("participant joined", "session_id", next.ID, "participant_id", participantID)
	return next, participantID, nil
}

// LookupByCode handles GET /sessions/by-code/{code}
func (h *SessionHandler) LookupByCode(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.FindByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err, "look up session")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.LookupResponse{ID: s.ID})
}

// LookupBySlug handles GET /sessions/by-slug/{slug}
func (h *SessionHandler) LookupBySlug(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.FindBySlug(r.Context(), strings.ToLower(r.PathValue("slug")))
	if err != nil {
		writeError(w, err, "look up session")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.LookupResponse{ID: s.ID})
}
