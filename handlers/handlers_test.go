// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sync"

	"github.com/danielhkuo/estimation-lab/models"
)

// recordingPublisher keeps every published event for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(_ string, ev models.Event) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return 1
}

func (p *recordingPublisher) Events() []models.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Event(nil), p.events...)
}

func (p *recordingPublisher) Last() (models.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return models.Event{}, false
	}
	return p.events[len(p.events)-1], true
}
