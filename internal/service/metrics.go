package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Relay outcomes used as the "outcome" label.
const (
	OutcomeSent          = "sent"
	OutcomeFailed        = "failed"
	OutcomeNotConfigured = "not_configured"
	OutcomeRejected      = "rejected"
)

type RelayMetrics struct {
	relays   *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		relays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_contact_relay_total",
			Help: "Contact messages handled by the relay, by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_contact_relay_duration_seconds",
			Help:    "Time spent dispatching a contact message",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15},
		}),
	}

	reg.MustRegister(m.relays)
	reg.MustRegister(m.duration)
	return m
}

func (m *RelayMetrics) observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.relays.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Rejected counts a submission refused before reaching the relay
// (validation or rate limiting).
func (m *RelayMetrics) Rejected() {
	if m == nil {
		return
	}
	m.relays.WithLabelValues(OutcomeRejected).Inc()
}
