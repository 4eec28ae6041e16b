// Package metrics defines the Prometheus collectors exported at /metrics.
// Collectors are registered on an injected registry so tests can build as
// many instances as they like. All methods are safe on a nil *Metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travelmind"

// Route computation outcomes.
const (
	OutcomeOK               = "ok"
	OutcomeMissingSelection = "missing_selection"
	OutcomeNoRoute          = "no_route"
	OutcomeUpstreamError    = "upstream_error"
)

// Metrics groups every collector the service updates.
type Metrics struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	routeRequests      *prometheus.CounterVec
	routeLatency       prometheus.Histogram
	itineraryMutations *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		routeRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_computations_total",
			Help:      "Route computations by outcome",
		}, []string{"outcome"}),
		routeLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_upstream_duration_seconds",
			Help:      "Latency of calls to the directions service",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		itineraryMutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "itinerary_mutations_total",
			Help:      "Itinerary mutations by operation and whether state changed",
		}, []string{"op", "result"}),
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveRoute records a route computation outcome.
func (m *Metrics) ObserveRoute(outcome string) {
	if m == nil {
		return
	}
	m.routeRequests.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records the latency of one directions service call.
func (m *Metrics) ObserveUpstream(d time.Duration) {
	if m == nil {
		return
	}
	m.routeLatency.Observe(d.Seconds())
}

// ObserveMutation records an itinerary mutation. Stale UI events show up
// with result="noop".
func (m *Metrics) ObserveMutation(op string, changed bool) {
	if m == nil {
		return
	}
	result := "noop"
	if changed {
		result = "changed"
	}
	m.itineraryMutations.WithLabelValues(op, result).Inc()
}
