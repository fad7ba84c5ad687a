// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/danielhkuo/estimation-lab/models"
)

// SessionGetter looks a session up before a client may subscribe to it.
type SessionGetter interface {
	Get(ctx context.Context, id string) (*models.Session, error)
}

type handler struct {
	hub      *Hub
	sessions SessionGetter
	ws       websocket.Handler
}

// NewHandler serves GET /realtime?sessionId=<id>. Every event published for
// the session is written to the socket as one JSON object.
func NewHandler(hub *Hub, sessions SessionGetter) http.Handler {
	h := &handler{hub: hub, sessions: sessions}
	h.ws = websocket.Handler(h.serveConn)
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.TrimSpace(r.URL.Query().Get("sessionId"))
	if sessionID == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}
	if _, err := h.sessions.Get(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	h.ws.ServeHTTP(w, r)
}

func (h *handler) serveConn(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	sessionID := strings.TrimSpace(conn.Request().URL.Query().Get("sessionId"))
	sub := h.hub.Subscribe(sessionID)
	defer h.hub.Unsubscribe(sub)
	slog.Info("realtime subscriber connected", "session_id", sessionID)

	// Clients only listen; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_, _ = io.Copy(io.Discard, conn)
	}()

	enc := json.NewEncoder(conn)
	hello := models.Event{Type: models.EventSubscribed, SessionID: sessionID, At: time.Now().UTC()}
	if err := enc.Encode(hello); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			slog.Info("realtime subscriber disconnected", "session_id", sessionID)
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := enc.Encode(ev); err != nil {
				if !errors.Is(err, io.EOF) {
					slog.Warn("realtime write failed", "session_id", sessionID, "error", err)
				}
				return
			}
			if ev.Type == models.EventSessionDeleted {
				return
			}
		}
	}
}
