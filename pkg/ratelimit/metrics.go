package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics receives limiter events.
type Metrics interface {
	RecordAllowed(limiter string)
	RecordDenied(limiter string)
	RecordEviction(limiter string, count int)
	SetActiveKeys(limiter string, count int)
}

// NoOpMetrics discards every event.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordAllowed(string)       {}
func (NoOpMetrics) RecordDenied(string)        {}
func (NoOpMetrics) RecordEviction(string, int) {}
func (NoOpMetrics) SetActiveKeys(string, int)  {}

// PrometheusMetrics implements Metrics with Prometheus collectors.
type PrometheusMetrics struct {
	requestsTotal  *prometheus.CounterVec
	evictionsTotal *prometheus.CounterVec
	activeKeys     *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the limiter collectors with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_rate_limit_requests_total",
				Help: "Total rate limit checks by limiter and status",
			},
			[]string{"limiter", "status"},
		),
		evictionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_rate_limit_evictions_total",
				Help: "Total keys dropped for idleness or capacity",
			},
			[]string{"limiter"},
		),
		activeKeys: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "http_rate_limit_active_keys",
				Help: "Current number of tracked keys",
			},
			[]string{"limiter"},
		),
	}
}

// RecordAllowed implements Metrics.
func (m *PrometheusMetrics) RecordAllowed(limiter string) {
	m.requestsTotal.WithLabelValues(limiter, "allowed").Inc()
}

// RecordDenied implements Metrics.
func (m *PrometheusMetrics) RecordDenied(limiter string) {
	m.requestsTotal.WithLabelValues(limiter, "denied").Inc()
}

// RecordEviction implements Metrics.
func (m *PrometheusMetrics) RecordEviction(limiter string, count int) {
	m.evictionsTotal.WithLabelValues(limiter).Add(float64(count))
}

// SetActiveKeys implements Metrics.
func (m *PrometheusMetrics) SetActiveKeys(limiter string, count int) {
	m.activeKeys.WithLabelValues(limiter).Set(float64(count))
}
