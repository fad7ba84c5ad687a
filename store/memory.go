// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"

	"github.com/danielhkuo/estimation-lab/models"
)

// MemoryStore keeps sessions in process. Snapshots are copied on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	byCode   map[string]string
	bySlug   map[string]string
	opts     options
}

func NewMemory(opts ...Option) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		byCode:   make(map[string]string),
		bySlug:   make(map[string]string),
		opts:     buildOptions(opts),
	}
}

func (m *MemoryStore) Create(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgeLocked()
	if _, ok := m.sessions[s.ID]; ok {
		return ErrExists
	}
	if _, ok := m.byCode[s.Code]; ok {
		return ErrExists
	}
	if s.Slug != "" {
		if _, ok := m.bySlug[s.Slug]; ok {
			return ErrExists
		}
	}

	s.Version = 1
	m.sessions[s.ID] = s.Clone()
	m.byCode[s.Code] = s.ID
	if s.Slug != "" {
		m.bySlug[s.Slug] = s.ID
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(id)
}

func (m *MemoryStore) FindByCode(_ context.Context, code string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return m.getLocked(id)
}

func (m *MemoryStore) FindBySlug(_ context.Context, slug string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.bySlug[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return m.getLocked(id)
}

func (m *MemoryStore) Put(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.sessions[s.ID]
	if !ok || expired(cur, m.opts.now()) {
		return ErrNotFound
	}
	if cur.Version != s.Version {
		return ErrConflict
	}

	s.Version++
	next := s.Clone()
	next.Code, next.Slug = cur.Code, cur.Slug
	m.sessions[s.ID] = next
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.sessions[id]
	if !ok || expired(cur, m.opts.now()) {
		return ErrNotFound
	}
	m.removeLocked(cur)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) getLocked(id string) (*models.Session, error) {
	s, ok := m.sessions[id]
	if !ok || expired(s, m.opts.now()) {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) purgeLocked() {
	now := m.opts.now()
	for _, s := range m.sessions {
		if expired(s, now) {
			m.removeLocked(s)
		}
	}
}

func (m *MemoryStore) removeLocked(s *models.Session) {
	delete(m.sessions, s.ID)
	delete(m.byCode, s.Code)
	if s.Slug != "" {
		delete(m.bySlug, s.Slug)
	}
}
