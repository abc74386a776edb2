package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated after every solve.
type Metrics struct {
	Solves   *prometheus.CounterVec
	Expanded prometheus.Histogram
	Duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridpath",
			Name:      "solves_total",
			Help:      "Finished solves by outcome.",
		}, []string{"outcome"}),
		Expanded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gridpath",
			Name:      "expanded_nodes",
			Help:      "Nodes expanded per solve.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gridpath",
			Name:      "solve_duration_seconds",
			Help:      "Wall time per solve including endpoint resolution.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.Solves, m.Expanded, m.Duration)
	return m
}

// Observe records one finished solve.
func (m *Metrics) Observe(sol Solution) {
	m.Solves.WithLabelValues(string(sol.Outcome)).Inc()
	m.Expanded.Observe(float64(sol.Result.Expanded))
	m.Duration.Observe(sol.Elapsed.Seconds())
}
