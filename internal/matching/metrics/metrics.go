package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks borrower/lender evaluations and lender sweeps.
type Metrics struct {
	Evaluations      *prometheus.CounterVec
	EvaluationPanics prometheus.Counter
	SweepDuration    prometheus.Histogram
	SweepsCancelled  prometheus.Counter
	SweepsInFlight   prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lendmatch_evaluations_total",
			Help: "Borrower/lender pair evaluations by resulting status",
		}, []string{"status"}),
		EvaluationPanics: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendmatch_evaluation_errors_total",
			Help: "Pair evaluations that panicked and were recorded as rejected",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lendmatch_sweep_duration_seconds",
			Help:    "Duration of completed lender sweeps",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		SweepsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendmatch_sweeps_cancelled_total",
			Help: "Lender sweeps cancelled by a newer policy save or shutdown",
		}),
		SweepsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lendmatch_sweeps_in_flight",
			Help: "Lender sweeps currently running",
		}),
	}
}

func (m *Metrics) IncEvaluation(status string) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(status).Inc()
}

func (m *Metrics) IncEvaluationPanic() {
	if m == nil {
		return
	}
	m.EvaluationPanics.Inc()
}

func (m *Metrics) ObserveSweep(seconds float64) {
	if m == nil {
		return
	}
	m.SweepDuration.Observe(seconds)
}

func (m *Metrics) IncSweepCancelled() {
	if m == nil {
		return
	}
	m.SweepsCancelled.Inc()
}

func (m *Metrics) SweepStarted() {
	if m == nil {
		return
	}
	m.SweepsInFlight.Inc()
}

func (m *Metrics) SweepFinished() {
	if m == nil {
		return
	}
	m.SweepsInFlight.Dec()
}
