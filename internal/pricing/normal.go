// Package pricing implements closed-form probability models for
// binary-outcome prediction-market contracts on a crypto spot price,
// an implied-volatility solver that inverts those models against
// observed market prices, a volatility smile built from calibrated
// strikes, and the curve generators that turn a calibrated portfolio
// into plottable P&L series.
//
// Everything in this package is a pure function over its inputs: no
// I/O, no shared state, no goroutines. Prices are probabilities in
// [0, 1]; volatilities are annualized. Time scaling is generalized
// from sqrt(tau) to tau^H to better fit crypto-market time decay
// (H = 0.5 reproduces standard Black-Scholes digital pricing).
package pricing

import "math"

// Abramowitz & Stegun 7.1.26 rational approximation of erf.
// Max absolute error ~1.5e-7, plenty below the 1e-4 calibration
// tolerance used elsewhere in this package.
const (
	asA1 = 0.254829592
	asA2 = -0.284496736
	asA3 = 1.421413741
	asA4 = -1.453152027
	asA5 = 1.061405429
	asP  = 0.3275911
)

// NormalCDF returns the standard normal cumulative distribution at x,
// via Phi(x) = (1 + erf(x/sqrt2)) / 2 with the erf approximation
// evaluated on the positive half-line and mirrored. Beyond |x| = 8 the
// tail mass is below the approximation error, so the result is snapped
// to 0 or 1 to avoid exponent underflow.
func NormalCDF(x float64) float64 {
	if x > 8 {
		return 1
	}
	if x < -8 {
		return 0
	}

	neg := x < 0
	if neg {
		x = -x
	}

	z := x / math.Sqrt2
	k := 1.0 / (1.0 + asP*z)
	poly := k * (asA1 + k*(asA2+k*(asA3+k*(asA4+k*asA5))))
	erf := 1.0 - poly*math.Exp(-z*z)
	p := 0.5 * (1.0 + erf)

	if neg {
		return 1.0 - p
	}
	return p
}
