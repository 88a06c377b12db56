// Package metrics exposes Prometheus collectors for the audit service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry prometheus.Gatherer

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	auditsTotal       *prometheus.CounterVec
	auditDuration     prometheus.Histogram
	recommendations   prometheus.Histogram
	calibrations      prometheus.Counter
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
}

// New creates the collectors and registers them on reg. A nil reg uses the
// default Prometheus registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		auditsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "energy_audits_total",
			Help: "Total audits run by outcome.",
		}, []string{"outcome"}),
		auditDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "energy_audit_duration_seconds",
			Help:    "Histogram of end-to-end audit pipeline durations.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		recommendations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "energy_audit_recommendations",
			Help:    "Number of recommendations returned per audit.",
			Buckets: prometheus.LinearBuckets(0, 2, 7),
		}),
		calibrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "energy_audit_calibrations_total",
			Help: "Total audits calibrated against a utility bill.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "energy_audit_cache_hits_total",
			Help: "Total report cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "energy_audit_cache_misses_total",
			Help: "Total report cache misses.",
		}),
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	m.registry = prometheus.DefaultGatherer
	if reg != nil {
		registerer = reg
		m.registry = reg
	}

	registerer.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.auditsTotal,
		m.auditDuration,
		m.recommendations,
		m.calibrations,
		m.cacheHits,
		m.cacheMisses,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request counts and latency for a route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AuditCompleted records a finished audit.
func (m *Metrics) AuditCompleted(duration time.Duration, recommendations int, calibrated bool) {
	if m == nil {
		return
	}
	m.auditsTotal.WithLabelValues("success").Inc()
	m.auditDuration.Observe(duration.Seconds())
	m.recommendations.Observe(float64(recommendations))
	if calibrated {
		m.calibrations.Inc()
	}
}

// AuditFailed records an audit rejected with the given outcome, e.g. "invalid_input".
func (m *Metrics) AuditFailed(outcome string) {
	if m == nil {
		return
	}
	m.auditsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}
