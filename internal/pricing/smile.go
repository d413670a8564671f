package pricing

import (
	"math"
	"sort"
)

// SmilePoint is one calibrated node of the volatility smile:
// moneyness ln(S_cal/K) against the implied vol solved at that strike.
type SmilePoint struct {
	Moneyness float64 `json:"moneyness"`
	Vol       float64 `json:"vol"`
}

// Smile is a sparse curve of calibrated (moneyness, vol) points in
// ascending moneyness order. It is built fresh whenever the
// calibration spot, tau, or H changes — never patched in place.
type Smile []SmilePoint

// StrikeQuote is the market observation a smile node is solved from.
type StrikeQuote struct {
	Strike   float64
	YesPrice float64
}

// BuildSmile calibrates one smile node per usable quote: strikes
// priced inside (0.001, 0.999) are inverted with SolveImpliedVol at
// the calibration spot; everything else is skipped. For one-touch
// kinds the barrier direction of each node is derived against the
// calibration spot. The result is sorted ascending by moneyness.
func BuildSmile(kind Kind, spot float64, quotes []StrikeQuote, ctx Context) Smile {
	smile := make(Smile, 0, len(quotes))
	for _, q := range quotes {
		if q.Strike <= 0 || q.YesPrice <= 0.001 || q.YesPrice >= 0.999 {
			continue
		}
		m := ModelFor(kind, q.Strike, spot)
		sigma, ok := SolveImpliedVol(m, spot, q.Strike, q.YesPrice, ctx)
		if !ok {
			continue
		}
		smile = append(smile, SmilePoint{
			Moneyness: math.Log(spot / q.Strike),
			Vol:       sigma,
		})
	}
	sort.Slice(smile, func(i, j int) bool { return smile[i].Moneyness < smile[j].Moneyness })
	return smile
}

// Vol interpolates the smile at the given moneyness: piecewise linear
// between bracketing nodes, flat beyond the observed range. At a
// node's exact moneyness the node's vol is returned untouched, which
// is what pins P&L to zero at the calibration spot. The second result
// is false when the smile is empty — the caller supplies the fallback
// vol, the smile does not guess.
func (s Smile) Vol(moneyness float64) (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	if moneyness <= s[0].Moneyness {
		return s[0].Vol, true
	}
	last := len(s) - 1
	if moneyness >= s[last].Moneyness {
		return s[last].Vol, true
	}

	// First node strictly right of the query.
	i := sort.Search(len(s), func(i int) bool { return s[i].Moneyness > moneyness })
	lo, hi := s[i-1], s[i]
	if moneyness == lo.Moneyness {
		return lo.Vol, true
	}
	t := (moneyness - lo.Moneyness) / (hi.Moneyness - lo.Moneyness)
	return lo.Vol + t*(hi.Vol-lo.Vol), true
}
