package metrics

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getmockd/mockapi/pkg/model"
)

const namespace = "mockapi"

// Route label values.
const (
	RouteMock    = "mock"
	RouteAdmin   = "admin"
	RouteStatic  = "static"
	RouteMetrics = "metrics"
)

// DefaultBuckets covers sub-millisecond lookups up to multi-second simulated delays.
var DefaultBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Metrics holds the server's collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts handled requests. Labels: method, route, status.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration tracks request latency in seconds, delay included.
	// Labels: method, route.
	RequestDuration *prometheus.HistogramVec

	// MatchHitsTotal counts resolved mock requests. Labels: scope (global, project).
	MatchHitsTotal *prometheus.CounterVec

	// MatchMissesTotal counts mock requests no endpoint matched.
	MatchMissesTotal prometheus.Counter

	// MalformedPatternsTotal counts candidates skipped for a malformed path pattern.
	MalformedPatternsTotal prometheus.Counter

	// StorageErrorsTotal counts backend failures by operation.
	// Labels: op (resolve, settings, admin).
	StorageErrorsTotal *prometheus.CounterVec

	// DelayedResponsesTotal counts responses that waited on a simulated delay.
	// Labels: outcome (completed, cancelled).
	DelayedResponsesTotal *prometheus.CounterVec
}

// New creates a Metrics value with a fresh registry. Go runtime and process
// collectors are registered alongside the server's own collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of handled requests.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of handled requests in seconds.",
			Buckets:   DefaultBuckets,
		}, []string{"method", "route"}),
		MatchHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_hits_total",
			Help:      "Number of mock requests resolved to an endpoint.",
		}, []string{"scope"}),
		MatchMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_misses_total",
			Help:      "Number of mock requests that matched no endpoint.",
		}),
		MalformedPatternsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_patterns_total",
			Help:      "Number of endpoint candidates skipped because their path pattern is malformed.",
		}),
		StorageErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Number of storage backend failures.",
		}, []string{"op"}),
		DelayedResponsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delayed_responses_total",
			Help:      "Number of responses that waited on a simulated delay.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.MatchHitsTotal,
		m.MatchMissesTotal,
		m.MalformedPatternsTotal,
		m.StorageErrorsTotal,
		m.DelayedResponsesTotal,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	method = MethodLabel(method)
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// MethodOther replaces request methods outside model.Methods in labels, which
// keeps client-chosen method tokens from creating new series.
const MethodOther = "OTHER"

// MethodLabel returns the label value for an HTTP method.
func MethodLabel(method string) string {
	if slices.Contains(model.Methods, method) {
		return method
	}
	return MethodOther
}

// MatchHit records a resolved mock request.
func (m *Metrics) MatchHit(projectScope string) {
	if m == nil {
		return
	}
	scope := "global"
	if projectScope != "" {
		scope = "project"
	}
	m.MatchHitsTotal.WithLabelValues(scope).Inc()
}

// MatchMiss records an unmatched mock request.
func (m *Metrics) MatchMiss() {
	if m == nil {
		return
	}
	m.MatchMissesTotal.Inc()
}

// MalformedPattern records a skipped candidate.
func (m *Metrics) MalformedPattern() {
	if m == nil {
		return
	}
	m.MalformedPatternsTotal.Inc()
}

// StorageError records a backend failure during op.
func (m *Metrics) StorageError(op string) {
	if m == nil {
		return
	}
	m.StorageErrorsTotal.WithLabelValues(op).Inc()
}

// DelayedResponse records the outcome of a simulated delay.
func (m *Metrics) DelayedResponse(cancelled bool) {
	if m == nil {
		return
	}
	outcome := "completed"
	if cancelled {
		outcome = "cancelled"
	}
	m.DelayedResponsesTotal.WithLabelValues(outcome).Inc()
}
