// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Outcome tag values
const (
	OutcomeOK = "ok"
)

var (
	KeyAction  = tag.MustNewKey("action")
	KeyOutcome = tag.MustNewKey("outcome")

	actionCount    = stats.Int64("session_actions", "Session actions handled", stats.UnitDimensionless)
	sessionCount   = stats.Int64("sessions_created", "Sessions created", stats.UnitDimensionless)
	finalizedCount = stats.Int64("items_finalized", "Items finalized", stats.UnitDimensionless)

	ActionsView = &view.View{
		Name:        "session_actions",
		Measure:     actionCount,
		Description: "Session actions by action and outcome",
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{KeyAction, KeyOutcome},
	}
	SessionsView = &view.View{
		Name:        "sessions_created",
		Measure:     sessionCount,
		Description: "Sessions created",
		Aggregation: view.Count(),
	}
	FinalizedView = &view.View{
		Name:        "items_finalized",
		Measure:     finalizedCount,
		Description: "Items finalized",
		Aggregation: view.Count(),
	}

	registerOnce sync.Once
	registerErr  error
)

// Register registers the views once per process.
func Register() error {
	registerOnce.Do(func() {
		registerErr = view.Register(ActionsView, SessionsView, FinalizedView)
	})
	return registerErr
}

// NewHandler returns a Prometheus scrape handler for every registered view.
func NewHandler(namespace string) (http.Handler, error) {
	if err := Register(); err != nil {
		return nil, fmt.Errorf("register views: %w", err)
	}
	pe, err := prometheus.NewExporter(prometheus.Options{
		Namespace: namespace,
		OnError: func(err error) {
			slog.Error("prometheus export failed", "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	return pe, nil
}

// RecordAction counts one handled action. outcome is OutcomeOK or an error kind.
func RecordAction(ctx context.Context, action, outcome string) {
	err := stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyAction, action), tag.Upsert(KeyOutcome, outcome)},
		actionCount.M(1),
	)
	if err != nil {
		slog.Warn("record action metric failed", "action", action, "error", err)
	}
}

func RecordSessionCreated(ctx context.Context) {
	stats.Record(ctx, sessionCount.M(1))
}

func RecordFinalized(ctx context.Context) {
	stats.Record(ctx, finalizedCount.M(1))
}
