package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Methods are nil-safe
// so tests can pass a nil *Metrics without registering collectors.
type Metrics struct {
	// Registration outcomes by verdict (0/1).
	RegistrationsTotal *prometheus.CounterVec

	// External scoring process latency and failures.
	ScoringLatency  prometheus.Histogram
	ScoringFailures prometheus.Counter

	// Reviewer verdict overrides by new verdict.
	VerdictOverrides *prometheus.CounterVec

	// Conditional updates that lost the version race and were retried.
	UpdateConflicts prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_registrations_total",
			Help: "Total registrations persisted, labeled by initial verdict",
		}, []string{"verdict"}),

		ScoringLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraud_scoring_duration_seconds",
			Help:    "Duration of external scoring process calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		ScoringFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraud_scoring_failures_total",
			Help: "Scoring calls that failed (non-zero exit, bad output, timeout)",
		}),

		VerdictOverrides: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_verdict_overrides_total",
			Help: "Reviewer verdict overrides, labeled by new verdict",
		}, []string{"verdict"}),

		UpdateConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraud_update_conflicts_total",
			Help: "Verdict updates that hit a version conflict and retried",
		}),
	}
}

// ObserveRegistration records a persisted registration.
func (m *Metrics) ObserveRegistration(verdict string) {
	if m != nil {
		m.RegistrationsTotal.WithLabelValues(verdict).Inc()
	}
}

// ObserveScoring records the duration of a scoring call.
func (m *Metrics) ObserveScoring(d time.Duration) {
	if m != nil {
		m.ScoringLatency.Observe(d.Seconds())
	}
}

// IncrementScoringFailure records a failed scoring call.
func (m *Metrics) IncrementScoringFailure() {
	if m != nil {
		m.ScoringFailures.Inc()
	}
}

// ObserveOverride records a reviewer verdict override.
func (m *Metrics) ObserveOverride(verdict string) {
	if m != nil {
		m.VerdictOverrides.WithLabelValues(verdict).Inc()
	}
}

// IncrementUpdateConflict records a lost update race.
func (m *Metrics) IncrementUpdateConflict() {
	if m != nil {
		m.UpdateConflicts.Inc()
	}
}
