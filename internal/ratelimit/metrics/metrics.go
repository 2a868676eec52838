package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Checks      *prometheus.CounterVec
	StoreErrors prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Checks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lendmatch_ratelimit_checks_total",
			Help: "Rate limit checks by class and outcome",
		}, []string{"class", "outcome"}),
		StoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lendmatch_ratelimit_store_errors_total",
			Help: "Rate limit checks that failed open because the bucket store errored",
		}),
	}
}

func (m *Metrics) IncCheck(class string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	m.Checks.WithLabelValues(class, outcome).Inc()
}

func (m *Metrics) IncStoreError() {
	if m == nil {
		return
	}
	m.StoreErrors.Inc()
}
