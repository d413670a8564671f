package pricing

import "math"

// clamp01 bounds a probability to [0, 1]. Every pricer output passes
// through here, so callers never see NaN, Inf, or out-of-range values.
func clamp01(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// PriceAbove returns the probability that spot finishes at or above
// strike at expiry, under zero-drift geometric Brownian motion with
// tau^H time scaling:
//
//	d2 = (ln(S/K) - v^2/2) / v,  v = sigma * tau^H
//	P  = Phi(d2)
//
// When tau <= 0 or sigma <= 0 the model degenerates to the expiry
// step function: 1 if S >= K, else 0.
func PriceAbove(s, k, sigma float64, ctx Context) float64 {
	if s <= 0 || k <= 0 {
		return 0
	}
	v := ctx.vol(sigma)
	if v == 0 {
		if s >= k {
			return 1
		}
		return 0
	}
	d2 := (math.Log(s/k) - 0.5*v*v) / v
	return clamp01(NormalCDF(d2))
}

// PriceHit returns the probability that spot touches the barrier at
// least once before expiry. The formula is the reflection-principle
// first-passage probability for zero-drift GBM; up and down barriers
// are priced by separate branches rather than one signed formula so
// each can be checked against the derivation independently.
//
// Touching is a weaker event than finishing beyond the barrier, so
// PriceHit >= PriceAbove for the same level at all inputs.
//
// The zero-drift assumption is load-bearing: a nonzero rate or
// dividend drift needs a re-derived formula, not a parameter tweak.
func PriceHit(s, barrier, sigma float64, up bool, ctx Context) float64 {
	if s <= 0 || barrier <= 0 {
		return 0
	}
	if s == barrier {
		return 1 // already touched
	}
	if up && s >= barrier {
		return 1
	}
	if !up && s <= barrier {
		return 1
	}

	v := ctx.vol(sigma)
	if v == 0 {
		// not yet breached and no time or volatility left
		return 0
	}

	if up {
		lr := math.Log(s / barrier) // negative: barrier above spot
		d1 := (lr - 0.5*v*v) / v
		d2 := (lr + 0.5*v*v) / v
		return clamp01(NormalCDF(d1) + (s/barrier)*NormalCDF(d2))
	}

	lr := math.Log(barrier / s) // negative: barrier below spot
	e1 := (lr + 0.5*v*v) / v
	e2 := (lr - 0.5*v*v) / v
	return clamp01(NormalCDF(e1) + (s/barrier)*NormalCDF(e2))
}

// PriceYes is the single pricing entry point used by calibration and
// curve generation, dispatching on the model's payoff kind. Keeping
// one door guarantees the solver and the curves always agree.
func PriceYes(m Model, s, k, sigma float64, ctx Context) float64 {
	if m.Kind == KindHit {
		return PriceHit(s, k, sigma, m.Up, ctx)
	}
	return PriceAbove(s, k, sigma, ctx)
}

// ExpiryYes is the tau->0 limit of PriceYes: the pure step payoff.
// For one-touch contracts this is the "never touched before expiry"
// worst case, a deliberate simplification rather than a full
// path-dependent payoff.
func ExpiryYes(m Model, s, k float64) float64 {
	if m.Kind == KindHit {
		if m.Up {
			if s >= k {
				return 1
			}
			return 0
		}
		if s <= k {
			return 1
		}
		return 0
	}
	if s >= k {
		return 1
	}
	return 0
}
