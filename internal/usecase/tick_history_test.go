package usecase

import (
	"context"
	"testing"
	"time"

	"StrikeScope/internal/domain/models"
)

type captureStorage struct {
	from, to time.Time
	limit    int
}

func (s *captureStorage) Store(context.Context, *models.SpotTick) error        { return nil }
func (s *captureStorage) StoreBatch(context.Context, []*models.SpotTick) error { return nil }
func (s *captureStorage) Health(context.Context) error                         { return nil }
func (s *captureStorage) Close() error                                         { return nil }

func (s *captureStorage) Query(_ context.Context, _ string, from, to time.Time, limit int) ([]*models.SpotTick, error) {
	s.from, s.to, s.limit = from, to, limit
	return nil, nil
}

func TestTickHistory_DefaultsAndClamps(t *testing.T) {
	store := &captureStorage{}
	h := NewTickHistory(store, noopMetrics{})

	// zero bounds fall back to the last hour
	if _, err := h.Range(context.Background(), "BTCUSDT", time.Time{}, time.Time{}, 0); err != nil {
		t.Fatalf("range: %v", err)
	}
	if got := store.to.Sub(store.from); got != time.Hour {
		t.Errorf("default window = %v, want 1h", got)
	}
	if store.limit != maxHistoryRows {
		t.Errorf("limit = %d, want %d for non-positive input", store.limit, maxHistoryRows)
	}

	// inverted bounds are replaced, explicit limit passes through
	to := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if _, err := h.Range(context.Background(), "BTCUSDT", to.Add(time.Minute), to, 250); err != nil {
		t.Fatalf("range: %v", err)
	}
	if !store.from.Before(store.to) {
		t.Errorf("inverted bounds not repaired: from=%v to=%v", store.from, store.to)
	}
	if store.limit != 250 {
		t.Errorf("limit = %d, want 250", store.limit)
	}

	// oversized limit clamps
	if _, err := h.Range(context.Background(), "BTCUSDT", time.Time{}, to, maxHistoryRows+1); err != nil {
		t.Fatalf("range: %v", err)
	}
	if store.limit != maxHistoryRows {
		t.Errorf("limit = %d, want clamp to %d", store.limit, maxHistoryRows)
	}
}
