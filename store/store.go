// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/danielhkuo/estimation-lab/models"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrConflict = errors.New("session was modified concurrently")
	ErrExists   = errors.New("session id, code or slug already in use")
)

// Store persists whole session snapshots.
//
// Create assigns the first version. Put is a compare-and-swap: it succeeds
// only when s.Version equals the stored version and then advances s.Version.
// Expired sessions read as ErrNotFound.
type Store interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	FindByCode(ctx context.Context, code string) (*models.Session, error)
	FindBySlug(ctx context.Context, slug string) (*models.Session, error)
	Put(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func expired(s *models.Session, now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}
