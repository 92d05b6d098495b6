// Package metrics exposes Prometheus metrics for the price pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stock_dashboard/internal/feature/candles/domain/normalizer"
)

// Metrics holds all Prometheus metrics of the service.
type Metrics struct {
	registry *prometheus.Registry

	ProviderRequestDur *prometheus.HistogramVec // labels: provider, code
	CacheLookups       *prometheus.CounterVec   // labels: namespace, result=hit|miss
	NormalizedRows     *prometheus.CounterVec   // labels: result=kept|dropped|duplicate
	HTTPRequests       *prometheus.CounterVec   // labels: route, status
	HTTPRequestDur     *prometheus.HistogramVec // labels: route
	JobRuns            *prometheus.CounterVec   // labels: job, result=ok|error
	MarketOpen         prometheus.Gauge
}

// NewMetrics registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ProviderRequestDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_provider_request_duration_seconds",
			Help:    "Market data provider HTTP latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "code"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_cache_lookups_total",
			Help: "Market series cache lookups by result",
		}, []string{"namespace", "result"}),
		NormalizedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_normalized_rows_total",
			Help: "Provider rows seen by the normalizer, by outcome",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"route", "status"}),
		HTTPRequestDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_job_runs_total",
			Help: "Scheduled job runs by result",
		}, []string{"job", "result"}),
		MarketOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_market_open",
			Help: "Market session state seen by the scheduler (0=closed, 1=open)",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ProviderRequestDur,
		m.CacheLookups,
		m.NormalizedRows,
		m.HTTPRequests,
		m.HTTPRequestDur,
		m.JobRuns,
		m.MarketOpen,
	)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCache counts one cache lookup.
func (m *Metrics) ObserveCache(namespace string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(namespace, result).Inc()
}

// ObserveNormalize counts what the normalizer kept and removed.
func (m *Metrics) ObserveNormalize(_ string, stats normalizer.Stats) {
	kept := stats.Input - stats.Dropped - stats.Duplicates
	if kept > 0 {
		m.NormalizedRows.WithLabelValues("kept").Add(float64(kept))
	}
	if stats.Dropped > 0 {
		m.NormalizedRows.WithLabelValues("dropped").Add(float64(stats.Dropped))
	}
	if stats.Duplicates > 0 {
		m.NormalizedRows.WithLabelValues("duplicate").Add(float64(stats.Duplicates))
	}
}

// ObserveJob counts one scheduled job run.
func (m *Metrics) ObserveJob(job string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.JobRuns.WithLabelValues(job, result).Inc()
}

// SetMarketOpen records the market session state.
func (m *Metrics) SetMarketOpen(open bool) {
	v := 0.0
	if open {
		v = 1
	}
	m.MarketOpen.Set(v)
}

// InstrumentTransport wraps next so that every provider request is timed.
func (m *Metrics) InstrumentTransport(provider string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	obs := m.ProviderRequestDur.MustCurryWith(prometheus.Labels{"provider": provider})
	return promhttp.InstrumentRoundTripperDuration(obs, next)
}

// GinMiddleware counts requests per route template and status.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDur.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
