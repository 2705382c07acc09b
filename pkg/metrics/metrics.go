package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported by the service.
type Metrics struct {
	registry *prometheus.Registry

	CacheLookups     *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	AuthRejections   *prometheus.CounterVec
}

// New registers collectors on a private registry so tests can build as many as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uptime_status_cache_lookups_total",
				Help: "Response cache lookups partitioned by result.",
			},
			[]string{"result"},
		),
		UpstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uptime_status_upstream_requests_total",
				Help: "Upstream getMonitors calls partitioned by outcome.",
			},
			[]string{"outcome"},
		),
		UpstreamDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "uptime_status_upstream_request_duration_seconds",
				Help:    "Latency of upstream getMonitors calls.",
				Buckets: prometheus.DefBuckets,
			},
		),
		AuthRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uptime_status_auth_rejections_total",
				Help: "Requests rejected by the site auth gate.",
			},
			[]string{"reason"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
