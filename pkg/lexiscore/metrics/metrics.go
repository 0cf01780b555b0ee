// Package metrics defines the Prometheus collectors for analysis runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Document outcome labels.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

// Metrics holds all Prometheus collectors for the analyzer.
type Metrics struct {
	DocumentsTotal  *prometheus.CounterVec
	MatchesTotal    *prometheus.CounterVec
	TermsTotal      prometheus.Counter
	BatchDuration   prometheus.Histogram
	BatchesInFlight prometheus.Gauge
}

// New creates the collectors and registers them on reg. A nil reg
// registers nothing, which is useful in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexiscore_documents_total",
				Help: "Documents processed by outcome (ok, empty, error).",
			},
			[]string{"status"},
		),
		MatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexiscore_category_matches_total",
				Help: "Matched term occurrences by dictionary category.",
			},
			[]string{"category"},
		),
		TermsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexiscore_terms_total",
				Help: "Terms surviving stopword removal across all documents.",
			},
		),
		BatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexiscore_batch_duration_seconds",
				Help:    "Wall time of one Analyze call.",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
			},
		),
		BatchesInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexiscore_batches_in_flight",
				Help: "Analyze calls currently running.",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.DocumentsTotal,
			m.MatchesTotal,
			m.TermsTotal,
			m.BatchDuration,
			m.BatchesInFlight,
		)
	}
	return m
}

// ObserveDocument records the outcome of one document.
func (m *Metrics) ObserveDocument(status string, terms int, counts map[string]int) {
	m.DocumentsTotal.WithLabelValues(status).Inc()
	m.TermsTotal.Add(float64(terms))
	for cat, n := range counts {
		if n > 0 {
			m.MatchesTotal.WithLabelValues(cat).Add(float64(n))
		}
	}
}

// StartBatch marks a batch as running and returns a func that records
// its duration when called.
func (m *Metrics) StartBatch() func() {
	start := time.Now()
	m.BatchesInFlight.Inc()
	return func() {
		m.BatchesInFlight.Dec()
		m.BatchDuration.Observe(time.Since(start).Seconds())
	}
}
