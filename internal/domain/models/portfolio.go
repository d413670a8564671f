package models

import (
	"sort"

	"StrikeScope/internal/pricing"
)

// Side is which half of a binary market a position holds.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// NormalizeSide converts a raw string to a valid side (default YES).
func NormalizeSide(s string) Side {
	if Side(s) == SideNo {
		return SideNo
	}
	return SideYes
}

// Strike is one selected prediction-market position. UpBarrier is
// derived against the spot at selection time and never recomputed;
// Vol is written only by the calibration step.
type Strike struct {
	MarketID   string
	Symbol     string
	Side       Side
	Price      float64 // strike/barrier level K
	UpBarrier  bool
	EntryPrice float64 // probability paid, in (0, 1)
	YesPrice   float64 // current market YES quote
	Vol        float64 // calibrated implied vol
	Calibrated bool
}

// Key identifies a strike inside a portfolio: the same market may be
// held as both YES and NO, but never twice on the same side.
func (s Strike) Key() string { return s.MarketID + "/" + string(s.Side) }

// Model returns the pricing model for this strike under the given
// payoff kind, with the direction flag frozen at selection.
func (s Strike) Model(kind pricing.Kind) pricing.Model {
	if kind == pricing.KindHit {
		return pricing.Hit(s.UpBarrier)
	}
	return pricing.Above()
}

// Portfolio is a set of strikes keyed by marketID+side. Iteration
// order is only a display concern, so Strikes() sorts for stability.
type Portfolio struct {
	strikes map[string]*Strike
}

// NewPortfolio returns an empty portfolio.
func NewPortfolio() *Portfolio {
	return &Portfolio{strikes: make(map[string]*Strike)}
}

// Add inserts or replaces a strike. Selecting an already-held
// market+side overwrites the previous entry.
func (p *Portfolio) Add(s Strike) {
	p.strikes[s.Key()] = &s
}

// Remove deselects a strike.
func (p *Portfolio) Remove(marketID string, side Side) {
	delete(p.strikes, marketID+"/"+string(side))
}

// Len returns the number of held strikes.
func (p *Portfolio) Len() int { return len(p.strikes) }

// SetVol records a calibrated volatility on a held strike.
func (p *Portfolio) SetVol(marketID string, side Side, vol float64, calibrated bool) {
	if s, ok := p.strikes[marketID+"/"+string(side)]; ok {
		s.Vol = vol
		s.Calibrated = calibrated
	}
}

// TotalEntryCost sums the entry prices of all held strikes.
func (p *Portfolio) TotalEntryCost() float64 {
	var total float64
	for _, s := range p.strikes {
		total += s.EntryPrice
	}
	return total
}

// Strikes returns the held strikes sorted by key for stable display.
func (p *Portfolio) Strikes() []Strike {
	out := make([]Strike, 0, len(p.strikes))
	for _, s := range p.strikes {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Positions lowers the portfolio into the pricing engine's input form
// under the given payoff kind.
func (p *Portfolio) Positions(kind pricing.Kind) []pricing.Position {
	strikes := p.Strikes()
	out := make([]pricing.Position, 0, len(strikes))
	for _, s := range strikes {
		out = append(out, pricing.Position{
			Model:      s.Model(kind),
			Strike:     s.Price,
			Yes:        s.Side == SideYes,
			EntryPrice: s.EntryPrice,
			Vol:        s.Vol,
		})
	}
	return out
}
