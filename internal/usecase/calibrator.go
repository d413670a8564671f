package usecase

import (
	"context"
	"time"

	"StrikeScope/internal/domain/models"
	drepo "StrikeScope/internal/domain/repository"
	"StrikeScope/internal/pricing"
	applogger "StrikeScope/pkg/logger"
)

// Calibrator solves implied volatility for held strikes against their
// market quotes. Strikes whose quote cannot be inverted get the
// configured fallback vol and are flagged uncalibrated.
type Calibrator struct {
	snaps       drepo.SnapshotStore
	metrics     drepo.Metrics
	fallbackVol float64
	logger      *applogger.Logger
}

// NewCalibrator creates a new Calibrator instance.
func NewCalibrator(snaps drepo.SnapshotStore, metrics drepo.Metrics, fallbackVol float64, logger *applogger.Logger) *Calibrator {
	return &Calibrator{snaps: snaps, metrics: metrics, fallbackVol: fallbackVol, logger: logger}
}

// Calibrate writes a vol onto every held strike and returns the
// snapshots taken. Each strike is solved in its own quote's time
// context; spot is the common anchor.
func (c *Calibrator) Calibrate(ctx context.Context, portfolio *models.Portfolio, quotes []models.MarketQuote, kind pricing.Kind, spot, h float64) []models.CalibrationSnapshot {
	byID := make(map[string]models.MarketQuote, len(quotes))
	for _, q := range quotes {
		byID[q.MarketID] = q
	}

	now := time.Now().UTC()
	snaps := make([]models.CalibrationSnapshot, 0, portfolio.Len())
	for _, s := range portfolio.Strikes() {
		q, ok := byID[s.MarketID]
		if !ok {
			continue
		}
		tau := q.TauYears()
		pctx := pricing.NewContext(tau, h)

		vol, solved := pricing.SolveImpliedVol(s.Model(kind), spot, s.Price, q.YesPrice, pctx)
		if solved {
			c.metrics.RecordCalibration(q.Symbol, string(kind))
		} else {
			vol = c.fallbackVol
			c.metrics.RecordSolverFallback("unconverged")
		}
		portfolio.SetVol(s.MarketID, s.Side, vol, solved)

		snaps = append(snaps, models.CalibrationSnapshot{
			Symbol:     q.Symbol,
			MarketID:   s.MarketID,
			Side:       string(s.Side),
			Kind:       string(kind),
			Spot:       spot,
			Strike:     s.Price,
			YesPrice:   q.YesPrice,
			Tau:        tau,
			H:          h,
			Vol:        vol,
			Calibrated: solved,
			At:         now,
		})
	}

	if c.snaps != nil && len(snaps) > 0 {
		if err := c.snaps.SaveCalibrations(ctx, snaps); err != nil {
			c.metrics.RecordError("snapshot_save")
			if c.logger != nil {
				c.logger.Warn("calibration snapshot save failed", applogger.Error(err))
			}
		}
	}
	return snaps
}
