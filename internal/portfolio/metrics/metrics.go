// Package metrics exposes Prometheus collectors for token governance,
// upstream calls and inbound HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/subham12r/portfolio/internal/portfolio/governor"
)

const namespace = "portfolio"

// Metrics implements governor.Observer and upstream.Observer.
type Metrics struct {
	reg *prometheus.Registry

	tokenCalls    *prometheus.CounterVec
	tokenDuration *prometheus.HistogramVec

	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	backoffWindow    *prometheus.GaugeVec
	throttles        *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry, plus the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,

		tokenCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_endpoint_calls_total",
			Help:      "OAuth token endpoint calls by integration, operation and outcome",
		}, []string{"integration", "op", "outcome"}),

		tokenDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "token_endpoint_duration_seconds",
			Help:      "OAuth token endpoint latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"integration", "op"}),

		upstreamCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "Proxied upstream calls by integration, outcome and status",
		}, []string{"integration", "outcome", "status"}),

		upstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_call_duration_seconds",
			Help:      "Proxied upstream call latency, short-circuits included",
			Buckets:   prometheus.DefBuckets,
		}, []string{"integration"}),

		backoffWindow: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backoff_window_seconds",
			Help:      "Length of the most recent cool-down window opened per integration",
		}, []string{"integration"}),

		throttles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_throttled_total",
			Help:      "429 responses received per integration",
		}, []string{"integration"}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Inbound HTTP requests by route and status",
		}, []string{"route", "method", "status"}),

		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Inbound HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Registry is exposed for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) ObserveTokenCall(integration string, op governor.Op, outcome string, elapsed time.Duration) {
	m.tokenCalls.WithLabelValues(integration, string(op), outcome).Inc()
	m.tokenDuration.WithLabelValues(integration, string(op)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveUpstreamCall(integration, outcome string, status int, elapsed time.Duration) {
	m.upstreamCalls.WithLabelValues(integration, outcome, strconv.Itoa(status)).Inc()
	m.upstreamDuration.WithLabelValues(integration).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveBackoff(integration string, window time.Duration) {
	m.throttles.WithLabelValues(integration).Inc()
	m.backoffWindow.WithLabelValues(integration).Set(window.Seconds())
}

// HTTPMiddleware records inbound requests by their mux pattern, so path
// parameters do not explode label cardinality.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(sw.status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
