package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StrikeScope/internal/domain/models"
	"StrikeScope/internal/domain/repository"
)

// Schema statements for the tables this repository writes.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS spot_ticks (
		ts DateTime64(3),
		symbol LowCardinality(String),
		price Float64,
		volume Float64,
		source LowCardinality(String)
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMMDD(ts)
	ORDER BY (symbol, ts)
	TTL toDateTime(ts) + INTERVAL 30 DAY`,

	`CREATE TABLE IF NOT EXISTS calibration_snapshots (
		at DateTime64(3),
		symbol LowCardinality(String),
		market_id String,
		side LowCardinality(String),
		kind LowCardinality(String),
		spot Float64,
		strike Float64,
		yes_price Float64,
		tau Float64,
		h Float64,
		vol Float64,
		calibrated UInt8
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMMDD(at)
	ORDER BY (symbol, market_id, at)
	TTL toDateTime(at) + INTERVAL 90 DAY`,
}

// ClickHouseStore implements Storage and SnapshotStore for ClickHouse.
type ClickHouseStore struct {
	db     *sql.DB
	source string
}

// NewClickHouseStore creates ClickHouse-backed storage.
func NewClickHouseStore(db *sql.DB, source string) *ClickHouseStore {
	if source == "" {
		source = "exchange"
	}
	return &ClickHouseStore{db: db, source: source}
}

func (s *ClickHouseStore) Store(ctx context.Context, t *models.SpotTick) error {
	const q = "INSERT INTO spot_ticks (ts, symbol, price, volume, source) VALUES (?, ?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, q,
		time.Unix(t.Timestamp, 0),
		t.Symbol,
		t.Price,
		t.Volume,
		s.source,
	)
	return err
}

func (s *ClickHouseStore) StoreBatch(ctx context.Context, ticks []*models.SpotTick) error {
	if len(ticks) == 0 {
		return nil
	}
	// Multi-row VALUES insert, chunked to keep statements bounded.
	const chunkSize = 2000
	for start := 0; start < len(ticks); start += chunkSize {
		end := start + chunkSize
		if end > len(ticks) {
			end = len(ticks)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*5)
		for _, t := range ticks[start:end] {
			if t == nil || t.Symbol == "" || t.Timestamp == 0 {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?)")
			args = append(args,
				time.Unix(t.Timestamp, 0),
				t.Symbol,
				t.Price,
				t.Volume,
				s.source,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO spot_ticks (ts, symbol, price, volume, source) VALUES %s", strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseStore) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.SpotTick, error) {
	const q = "SELECT symbol, ts, price, volume FROM spot_ticks WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?"
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticks []*models.SpotTick
	for rows.Next() {
		var t models.SpotTick
		var ts time.Time
		if err := rows.Scan(&t.Symbol, &ts, &t.Price, &t.Volume); err != nil {
			return nil, err
		}
		t.Timestamp = ts.Unix()
		ticks = append(ticks, &t)
	}
	return ticks, rows.Err()
}

// SaveCalibrations persists one row per calibrated strike.
func (s *ClickHouseStore) SaveCalibrations(ctx context.Context, snaps []models.CalibrationSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	values := make([]string, 0, len(snaps))
	args := make([]interface{}, 0, len(snaps)*12)
	for _, snap := range snaps {
		calibrated := uint8(0)
		if snap.Calibrated {
			calibrated = 1
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			snap.At,
			snap.Symbol,
			snap.MarketID,
			snap.Side,
			snap.Kind,
			snap.Spot,
			snap.Strike,
			snap.YesPrice,
			snap.Tau,
			snap.H,
			snap.Vol,
			calibrated,
		)
	}
	q := fmt.Sprintf(
		"INSERT INTO calibration_snapshots (at, symbol, market_id, side, kind, spot, strike, yes_price, tau, h, vol, calibrated) VALUES %s",
		strings.Join(values, ","))
	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *ClickHouseStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStore) Close() error {
	return nil // pool managed by pkg/clickhouse
}

var (
	_ repository.Storage       = (*ClickHouseStore)(nil)
	_ repository.SnapshotStore = (*ClickHouseStore)(nil)
)
