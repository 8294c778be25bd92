// Package metrics holds the Prometheus collectors for the optimizer and the HTTP layer.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dispatch"

// Metrics is a set of collectors bound to their own registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	OptimizeRuns     *prometheus.CounterVec
	OptimizeDuration *prometheus.HistogramVec
	UnassignedStops  *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		OptimizeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimize_runs_total",
			Help:      "Optimization runs by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		OptimizeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "optimize_duration_seconds",
			Help:      "Wall time of successful optimization runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"algorithm"}),
		UnassignedStops: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "unassigned_stops",
			Help:      "Stops left unassigned per run.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"algorithm"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OptimizeRuns,
		m.OptimizeDuration,
		m.UnassignedStops,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// RegisterDefault returns the process-wide collectors, creating them on first use.
func RegisterDefault() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New()
	})
	return defaultMetrics
}

// ObserveRun records one optimization run. Duration and unassigned counts are
// only observed for successful runs.
func (m *Metrics) ObserveRun(algorithm, outcome string, dur time.Duration, unassigned int) {
	if m == nil {
		return
	}
	m.OptimizeRuns.WithLabelValues(algorithm, outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	m.OptimizeDuration.WithLabelValues(algorithm).Observe(dur.Seconds())
	m.UnassignedStops.WithLabelValues(algorithm).Observe(float64(unassigned))
}

func (m *Metrics) ObserveHTTP(method, path string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(dur.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Run outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
	OutcomeTimeout = "timeout"
)
