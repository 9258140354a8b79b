// Package metrics owns the gateway's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "backoffice_gateway"

type Metrics struct {
	registry        *prometheus.Registry
	sessionLoads    *prometheus.CounterVec
	queryRejections *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_loads_total",
			Help:      "Session blob reads by outcome.",
		}, []string{"status"}),
		queryRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_rejections_total",
			Help:      "Query entries rejected by resource allow-lists.",
		}, []string{"resource", "kind"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of back-office API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessionLoads,
		m.queryRejections,
		m.upstreamLatency,
	)

	return m
}

func (m *Metrics) ObserveSessionLoad(status string) {
	m.sessionLoads.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveQueryRejected(resource string, kind string) {
	m.queryRejections.WithLabelValues(resource, kind).Inc()
}

// ObserveUpstream labels transport failures with status "error".
func (m *Metrics) ObserveUpstream(method string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamLatency.WithLabelValues(method, label).Observe(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
