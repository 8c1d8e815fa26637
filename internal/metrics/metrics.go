// Package metrics exposes Prometheus instrumentation for the solver service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fixedpoint"

// Registry holds all service metrics on a private Prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	// Solver metrics
	SolveTotal      *prometheus.CounterVec
	SolveIterations prometheus.Histogram
	SolveDuration   prometheus.Histogram

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// New creates a registry with the Go runtime and process collectors
// attached.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		SolveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solve_total",
			Help:      "Solve calls by terminal status.",
		}, []string{"status"}),
		SolveIterations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_iterations",
			Help:      "Progress rows produced per solve.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		SolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time spent in Solve.",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveSolve records one Solve call.
func (r *Registry) ObserveSolve(status string, progressRows int, elapsed time.Duration) {
	r.SolveTotal.WithLabelValues(status).Inc()
	r.SolveIterations.Observe(float64(progressRows))
	r.SolveDuration.Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func (r *Registry) ObserveHTTP(route string, code int, elapsed time.Duration) {
	r.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.HTTPLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
