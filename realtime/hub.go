// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"log/slog"
	"sync"

	"github.com/danielhkuo/estimation-lab/models"
)

// DefaultBuffer is the per-subscriber event backlog before events are dropped.
const DefaultBuffer = 16

// Hub fans session events out to subscribers. Publish never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]map[*Subscription]struct{}
	buffer int
}

// Subscription receives the events of one session until it is unsubscribed.
type Subscription struct {
	SessionID string
	events    chan models.Event
	once      sync.Once
}

// Events is closed when the subscription ends.
func (s *Subscription) Events() <-chan models.Event { return s.events }

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{rooms: make(map[string]map[*Subscription]struct{}), buffer: buffer}
}

func (h *Hub) Subscribe(sessionID string) *Subscription {
	sub := &Subscription{SessionID: sessionID, events: make(chan models.Event, h.buffer)}

	h.mu.Lock()
	room, ok := h.rooms[sessionID]
	if !ok {
		room = make(map[*Subscription]struct{})
		h.rooms[sessionID] = room
	}
	room[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if room, ok := h.rooms[sub.SessionID]; ok {
		delete(room, sub)
		if len(room) == 0 {
			delete(h.rooms, sub.SessionID)
		}
	}
	h.mu.Unlock()
	sub.once.Do(func() { close(sub.events) })
}

// Publish delivers ev to every subscriber of sessionID and returns how many
// received it.
func (h *Hub) Publish(sessionID string, ev models.Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for sub := range h.rooms[sessionID] {
		select {
		case sub.events <- ev:
			delivered++
		default:
			slog.Warn("realtime subscriber lagging, event dropped", "session_id", sessionID, "type", ev.Type)
		}
	}
	return delivered
}

// Subscribers reports the live subscription count for a session.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[sessionID])
}
