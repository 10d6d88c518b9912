package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for outgoing API calls.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics initializes and registers the client metrics on reg.
// Build it once per process and share it between clients.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pbx_console",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of remote API calls by method and outcome.",
		}, []string{"method", "status"}), // status: HTTP code or "network_error"
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pbx_console",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of remote API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}
