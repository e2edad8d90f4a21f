package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsComputed *prometheus.CounterVec
	barsIngested    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastVol         *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsComputed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_signals_computed_total",
				Help: "Total number of volatility signals computed",
			},
			[]string{"symbol"},
		),
		barsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_bars_ingested_total",
				Help: "Total number of daily bars written to the store",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastVol: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketpulse_last_annualized_vol",
				Help: "Last computed annualized realized volatility per symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignalComputed records one computed signal for a symbol.
func (r *Recorder) RecordSignalComputed(symbol string) {
	r.signalsComputed.WithLabelValues(symbol).Inc()
}

// RecordBarsIngested records bars written for a symbol.
func (r *Recorder) RecordBarsIngested(symbol string, count int) {
	r.barsIngested.WithLabelValues(symbol).Add(float64(count))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastVol records the last annualized volatility for a symbol.
func (r *Recorder) RecordLastVol(symbol string, volAnn float64) {
	r.lastVol.WithLabelValues(symbol).Set(volAnn)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
