// Package metrics exposes Prometheus collectors for pipeline runs, remote
// imports and HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sensor_dashboard"

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal      prometheus.Counter
	runDuration    prometheus.Histogram
	filesTotal     *prometheus.CounterVec
	rowsProduced   prometheus.Histogram
	importsTotal   *prometheus.CounterVec
	sessionsPruned prometheus.Counter
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total pipeline runs.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_run_duration_seconds",
			Help:      "Histogram of pipeline run durations.",
			Buckets:   prometheus.DefBuckets,
		}),
		filesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files seen by pipeline runs, by outcome.",
		}, []string{"outcome"}),
		rowsProduced: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "combined_rows",
			Help:      "Rows in the combined daily table per run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		importsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_imports_total",
			Help:      "Remote CSV imports, by result.",
		}, []string{"result"}),
		sessionsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_pruned_total",
			Help:      "Sessions evicted for being idle.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runsTotal,
		m.runDuration,
		m.filesTotal,
		m.rowsProduced,
		m.importsTotal,
		m.sessionsPruned,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ObserveRun records one pipeline run.
func (m *Metrics) ObserveRun(processed, warnings, failures, rows int, elapsed time.Duration) {
	m.runsTotal.Inc()
	m.runDuration.Observe(elapsed.Seconds())
	m.filesTotal.WithLabelValues("processed").Add(float64(processed))
	m.filesTotal.WithLabelValues("skipped").Add(float64(warnings))
	m.filesTotal.WithLabelValues("failed").Add(float64(failures))
	m.rowsProduced.Observe(float64(rows))
}

// ObserveImport records one remote import attempt.
func (m *Metrics) ObserveImport(ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	m.importsTotal.WithLabelValues(result).Inc()
}

// ObservePruned records evicted sessions.
func (m *Metrics) ObservePruned(n int) {
	m.sessionsPruned.Add(float64(n))
}

// Middleware records request counts and latencies by route pattern.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		route := c.Route().Path

		m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
