package usecase

import (
	"context"
	"fmt"
	"time"

	"StrikeScope/internal/domain/models"
	drepo "StrikeScope/internal/domain/repository"
)

const (
	defaultHistoryWindow = time.Hour
	maxHistoryRows       = 10000
)

// TickHistory serves stored spot ticks for charting and diagnostics.
type TickHistory struct {
	store   drepo.Storage
	metrics drepo.Metrics
}

// NewTickHistory creates a new TickHistory instance.
func NewTickHistory(store drepo.Storage, metrics drepo.Metrics) *TickHistory {
	return &TickHistory{store: store, metrics: metrics}
}

// Range returns ticks for a symbol over [from, to], newest first.
// Zero or inverted bounds fall back to the last hour; limit is clamped
// to at most maxHistoryRows.
func (h *TickHistory) Range(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.SpotTick, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() || !from.Before(to) {
		from = to.Add(-defaultHistoryWindow)
	}
	if limit <= 0 || limit > maxHistoryRows {
		limit = maxHistoryRows
	}

	start := time.Now()
	ticks, err := h.store.Query(ctx, symbol, from, to, limit)
	if err != nil {
		h.metrics.RecordError("history_query")
		return nil, fmt.Errorf("tick history: %w", err)
	}
	h.metrics.RecordLatency("history_query", time.Since(start).Seconds())
	return ticks, nil
}
