package pricing

import "math"

// DefaultCurvePoints is the standard sample count for a curve.
const DefaultCurvePoints = 200

// Point is one sample of a projection curve: portfolio value (or P&L)
// at a hypothetical spot level.
type Point struct {
	Spot  float64 `json:"spot"`
	Value float64 `json:"value"`
}

// Position is a single calibrated strike inside a portfolio, reduced
// to what pricing needs. Side is folded into Yes: a NO position
// contributes 1 - P(YES).
type Position struct {
	Model      Model
	Strike     float64
	Yes        bool
	EntryPrice float64
	Vol        float64 // calibrated sigma; used when no smile is supplied
}

// TotalEntryCost sums what was paid to open the positions.
func TotalEntryCost(positions []Position) float64 {
	var total float64
	for _, p := range positions {
		total += p.EntryPrice
	}
	return total
}

// ValueCurve samples the portfolio's model value at n equally spaced
// spots across [lower, upper] inclusive. Per sample, each position's
// sigma comes from the smile at moneyness ln(S/K) when a smile is
// supplied (sticky-moneyness), else from the position's own
// calibrated vol (sticky-strike); YES positions contribute P(YES),
// NO positions 1 - P(YES).
//
// Degenerate requests (n < 2, upper <= lower, no positions) return an
// empty curve. Otherwise the output has exactly n strictly increasing
// spots with first == lower and last == upper.
func ValueCurve(positions []Position, lower, upper float64, ctx Context, n int, smile Smile) []Point {
	if n < 2 || upper <= lower || len(positions) == 0 {
		return nil
	}

	step := (upper - lower) / float64(n-1)
	curve := make([]Point, n)
	for i := 0; i < n; i++ {
		spot := lower + float64(i)*step
		if i == n-1 {
			spot = upper // exact endpoint, no accumulated rounding
		}
		var value float64
		for _, p := range positions {
			sigma := p.Vol
			if smile != nil {
				if v, ok := smile.Vol(math.Log(spot / p.Strike)); ok {
					sigma = v
				}
			}
			yes := PriceYes(p.Model, spot, p.Strike, sigma, ctx)
			if p.Yes {
				value += yes
			} else {
				value += 1 - yes
			}
		}
		curve[i] = Point{Spot: spot, Value: value}
	}
	return curve
}

// ExpiryCurve is ValueCurve degenerated to the tau->0 step-function
// limit. One-touch positions use the "never touched before expiry"
// payoff, a documented simplification.
func ExpiryCurve(positions []Position, lower, upper float64, n int) []Point {
	if n < 2 || upper <= lower || len(positions) == 0 {
		return nil
	}

	step := (upper - lower) / float64(n-1)
	curve := make([]Point, n)
	for i := 0; i < n; i++ {
		spot := lower + float64(i)*step
		if i == n-1 {
			spot = upper
		}
		var value float64
		for _, p := range positions {
			yes := ExpiryYes(p.Model, spot, p.Strike)
			if p.Yes {
				value += yes
			} else {
				value += 1 - yes
			}
		}
		curve[i] = Point{Spot: spot, Value: value}
	}
	return curve
}

// PnL shifts a value curve by the portfolio's total entry cost,
// turning construction cost into realized profit/loss.
func PnL(curve []Point, entryCost float64) []Point {
	out := make([]Point, len(curve))
	for i, p := range curve {
		out[i] = Point{Spot: p.Spot, Value: p.Value - entryCost}
	}
	return out
}
