// Package metrics defines the Prometheus instrumentation for Meridian.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for Meridian.
// Pass to components that need to record metrics.
type Metrics struct {
	RefreshesTotal  *prometheus.CounterVec
	MutationsTotal  *prometheus.CounterVec
	StaleDropsTotal *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SessionActive   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RefreshesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "meridian",
				Name:      "refreshes_total",
				Help:      "Total entity refreshes performed",
			},
			[]string{"entity", "outcome"}, // outcome=ok/error
		),
		MutationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "meridian",
				Name:      "mutations_total",
				Help:      "Total entity mutations performed",
			},
			[]string{"entity", "op", "outcome"},
		),
		StaleDropsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "meridian",
				Name:      "stale_drops_total",
				Help:      "Responses discarded because a newer result was already applied",
			},
			[]string{"entity"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "meridian",
				Name:      "request_duration_seconds",
				Help:      "Remote request duration in seconds",
				Buckets:   prometheus.DefBuckets, // 5ms to 10s
			},
			[]string{"entity", "op"},
		),
		SessionActive: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "meridian",
				Name:      "session_active",
				Help:      "Whether an authenticated session is present (0 or 1)",
			},
		),
	}
}

// outcome label values.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// ObserveRefresh records one refresh. Safe on a nil receiver.
func (m *Metrics) ObserveRefresh(entity string, dur time.Duration, err error) {
	if m == nil {
		return
	}
	m.RefreshesTotal.WithLabelValues(entity, outcomeLabel(err)).Inc()
	m.RequestDuration.WithLabelValues(entity, "refresh").Observe(dur.Seconds())
}

// ObserveMutation records one mutation. Safe on a nil receiver.
func (m *Metrics) ObserveMutation(entity, op string, dur time.Duration, err error) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(entity, op, outcomeLabel(err)).Inc()
	m.RequestDuration.WithLabelValues(entity, op).Observe(dur.Seconds())
}

// ObserveStaleDrop records a discarded out-of-order response. Safe on a
// nil receiver.
func (m *Metrics) ObserveStaleDrop(entity string) {
	if m == nil {
		return
	}
	m.StaleDropsTotal.WithLabelValues(entity).Inc()
}

// SetSessionActive flips the session gauge. Safe on a nil receiver.
func (m *Metrics) SetSessionActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.SessionActive.Set(1)
	} else {
		m.SessionActive.Set(0)
	}
}

func outcomeLabel(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}
