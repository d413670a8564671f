package pricing

import "math"

// Kind selects the payoff structure of a contract.
type Kind string

const (
	// KindAbove is a terminal digital: pays if spot is at or above the
	// strike at expiry. Path-independent.
	KindAbove Kind = "above"

	// KindHit is a one-touch barrier: pays the first time spot crosses
	// the barrier level, any time before expiry. Path-dependent.
	KindHit Kind = "hit"
)

// IsValid reports whether k is a supported payoff kind.
func (k Kind) IsValid() bool { return k == KindAbove || k == KindHit }

// NormalizeKind converts a raw string to a valid Kind (or the default).
func NormalizeKind(s string) Kind {
	k := Kind(s)
	if k.IsValid() {
		return k
	}
	return KindAbove
}

// Model identifies how a contract pays out. For KindHit the barrier
// direction is part of the model: it is fixed when the strike is
// selected (barrier above or below the spot at selection time) and is
// never re-derived from a later, possibly-crossed spot. Barrier type
// is a property of the contract, not of the current spot.
type Model struct {
	Kind Kind
	Up   bool // KindHit only: true if the barrier was above spot at selection
}

// Above returns the terminal digital model.
func Above() Model { return Model{Kind: KindAbove} }

// Hit returns a one-touch model with the given barrier direction.
func Hit(up bool) Model { return Model{Kind: KindHit, Up: up} }

// ModelFor derives the model for a strike selected while spot traded
// at spotAtSelection. For one-touch contracts the direction flag is
// derived once, here.
func ModelFor(kind Kind, strike, spotAtSelection float64) Model {
	if kind == KindHit {
		return Hit(strike > spotAtSelection)
	}
	return Above()
}

// Context carries the parameters shared by every pricing call in one
// projection: time to expiry in years and the time-scaling exponent.
// It is an immutable value, passed once per curve computation.
type Context struct {
	Tau float64 // years to expiry
	H   float64 // time-scaling exponent; 0.5 = sqrt-time scaling
}

// NewContext builds a pricing context, defaulting H to 0.5 when unset.
func NewContext(tau, h float64) Context {
	if h <= 0 {
		h = DefaultH
	}
	return Context{Tau: tau, H: h}
}

// DefaultH is the standard Black-Scholes time exponent.
const DefaultH = 0.5

// WithTau returns a copy of the context at a different time to expiry.
// Used by curve generation to sample intermediate horizons.
func (c Context) WithTau(tau float64) Context {
	c.Tau = tau
	return c
}

// vol converts an annualized sigma into the total volatility over the
// remaining life, sigma * tau^H. Zero when the context is expired.
func (c Context) vol(sigma float64) float64 {
	if c.Tau <= 0 || sigma <= 0 {
		return 0
	}
	return sigma * math.Pow(c.Tau, c.H)
}
