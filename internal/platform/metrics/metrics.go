// Package metrics registers the HTTP-level Prometheus metrics shared by
// every route group.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the request-level Prometheus metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers the HTTP metrics.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "houscan_http_requests_total",
			Help: "Total number of HTTP requests served, by method and status.",
		}, []string{"method", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "houscan_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// ObserveRequest records one served request. Safe on a nil receiver so
// wiring without metrics stays valid in tests.
func (m *Metrics) ObserveRequest(method string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(seconds)
}
