package models

import (
	"time"

	"StrikeScope/internal/pricing"
)

// CalibratedStrike is the per-strike calibration result exposed for
// display alongside the curves.
type CalibratedStrike struct {
	MarketID   string  `json:"market_id"`
	Side       string  `json:"side"`
	Strike     float64 `json:"strike"`
	UpBarrier  bool    `json:"up_barrier"`
	EntryPrice float64 `json:"entry_price"`
	Vol        float64 `json:"vol"`
	Calibrated bool    `json:"calibrated"`
}

// ProjectionCurve is one plottable P&L (or value) series at a fixed
// time horizon.
type ProjectionCurve struct {
	Label  string          `json:"label"` // "now", "t23", "t13", "expiry"
	Tau    float64         `json:"tau"`
	Points []pricing.Point `json:"points"`
}

// Projection is the full engine output for one portfolio request:
// the four standard horizon curves, the smile used (if any), and the
// per-strike calibration detail.
type Projection struct {
	Symbol         string               `json:"symbol"`
	Kind           string               `json:"kind"`
	Spot           float64              `json:"spot"`
	Tau            float64              `json:"tau"`
	H              float64              `json:"h"`
	UsedSmile      bool                 `json:"used_smile"`
	TotalEntryCost float64              `json:"total_entry_cost"`
	Strikes        []CalibratedStrike   `json:"strikes"`
	Curves         []ProjectionCurve    `json:"curves"`
	Smile          []pricing.SmilePoint `json:"smile,omitempty"`
	GeneratedAt    time.Time            `json:"generated_at"`
}
