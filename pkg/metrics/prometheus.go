package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	calibrations    *prometheus.CounterVec
	solverFallbacks *prometheus.CounterVec
	curvePoints     *prometheus.HistogramVec
	lastSpot        *prometheus.GaugeVec
	ticksRouted     *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		calibrations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strikescope_calibrations_total",
				Help: "Total implied-volatility calibrations performed",
			},
			[]string{"symbol", "kind"},
		),
		solverFallbacks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strikescope_solver_fallbacks_total",
				Help: "Calibrations that fell back instead of converging",
			},
			[]string{"reason"},
		),
		curvePoints: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "strikescope_curve_points",
				Help:    "Sample counts of generated projection curves",
				Buckets: []float64{50, 100, 200, 500, 1000, 2000},
			},
			[]string{"label"},
		),
		lastSpot: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "strikescope_last_spot",
				Help: "Last observed spot price for a symbol",
			},
			[]string{"symbol"},
		),
		ticksRouted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strikescope_ticks_routed_total",
				Help: "Spot ticks routed to the configured backend",
			},
			[]string{"backend", "symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strikescope_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "strikescope_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCalibration records a completed IV calibration.
func (r *Recorder) RecordCalibration(symbol, kind string) {
	r.calibrations.WithLabelValues(symbol, kind).Inc()
}

// RecordSolverFallback records a non-converging calibration.
func (r *Recorder) RecordSolverFallback(reason string) {
	r.solverFallbacks.WithLabelValues(reason).Inc()
}

// RecordCurve records a generated curve's sample count.
func (r *Recorder) RecordCurve(label string, points int) {
	r.curvePoints.WithLabelValues(label).Observe(float64(points))
}

// RecordLastSpot records the last spot price for a symbol.
func (r *Recorder) RecordLastSpot(symbol string, price float64) {
	r.lastSpot.WithLabelValues(symbol).Set(price)
}

// RecordTickRouted records a tick forwarded to a backend.
func (r *Recorder) RecordTickRouted(backend, symbol string) {
	r.ticksRouted.WithLabelValues(backend, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
