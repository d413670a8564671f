package repository

import (
	"context"
	"time"

	"StrikeScope/internal/domain/models"
)

// SpotStream is a live exchange feed of spot ticks.
type SpotStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.SpotTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher forwards spot ticks to the message backend.
type Publisher interface {
	Publish(ctx context.Context, t *models.SpotTick) error
	PublishBatch(ctx context.Context, ticks []*models.SpotTick) error
	Close() error
}

// Storage persists spot ticks for history queries.
type Storage interface {
	Store(ctx context.Context, t *models.SpotTick) error
	StoreBatch(ctx context.Context, ticks []*models.SpotTick) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.SpotTick, error)
	Health(ctx context.Context) error
	Close() error
}

// SnapshotStore persists per-strike calibration results for vol
// history diagnostics.
type SnapshotStore interface {
	SaveCalibrations(ctx context.Context, snaps []models.CalibrationSnapshot) error
}

// Metrics records operational metrics. Implemented by pkg/metrics
// with Prometheus; the domain only sees this interface.
type Metrics interface {
	RecordCalibration(symbol, kind string)
	RecordSolverFallback(reason string)
	RecordCurve(label string, points int)
	RecordLastSpot(symbol string, price float64)
	RecordTickRouted(backend, symbol string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
