package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Spider metrics
	CrawlsTotal    *prometheus.CounterVec
	CrawlDuration  prometheus.Histogram
	LinksExtracted prometheus.Counter

	// Browser metrics
	SessionsActive  prometheus.Gauge
	SessionsStarted *prometheus.CounterVec
	SessionsStopped prometheus.Counter

	// Outbound fetch metrics
	FetchesTotal *prometheus.CounterVec

	// Diagnostics stream metrics
	StreamConnections prometheus.Gauge
	StreamEvents      *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a metrics collector on the default registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector on a specific registerer
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webstack_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webstack_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		CrawlsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webstack_spider_crawls_total",
				Help: "Total number of spider crawls",
			},
			[]string{"status"},
		),
		CrawlDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "webstack_spider_crawl_duration_seconds",
				Help:    "Spider crawl duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		LinksExtracted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webstack_spider_links_extracted_total",
				Help: "Total number of links extracted by the spider",
			},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "webstack_browser_sessions_active",
				Help: "Number of active browser sessions",
			},
		),
		SessionsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webstack_browser_sessions_started_total",
				Help: "Total number of browser sessions started",
			},
			[]string{"browser"},
		),
		SessionsStopped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webstack_browser_sessions_stopped_total",
				Help: "Total number of browser sessions stopped",
			},
		),

		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webstack_fetches_total",
				Help: "Total number of outbound fetches",
			},
			[]string{"status"},
		),

		StreamConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "webstack_stream_connections",
				Help: "Number of active diagnostics stream connections",
			},
		),
		StreamEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webstack_stream_events_total",
				Help: "Total number of diagnostics events published",
			},
			[]string{"source"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "webstack_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCrawl records a spider crawl
func (m *Metrics) RecordCrawl(status string, duration time.Duration, links int) {
	m.CrawlsTotal.WithLabelValues(status).Inc()
	m.CrawlDuration.Observe(duration.Seconds())
	m.LinksExtracted.Add(float64(links))
}

// RecordFetch records an outbound fetch
func (m *Metrics) RecordFetch(status string) {
	m.FetchesTotal.WithLabelValues(status).Inc()
}

// RecordSessionStart records a browser session start
func (m *Metrics) RecordSessionStart(browser string) {
	m.SessionsStarted.WithLabelValues(browser).Inc()
	m.SessionsActive.Set(1)
}

// RecordSessionStop records a browser session stop
func (m *Metrics) RecordSessionStop() {
	m.SessionsStopped.Inc()
	m.SessionsActive.Set(0)
}

// RecordStreamEvent records a diagnostics event
func (m *Metrics) RecordStreamEvent(source string) {
	m.StreamEvents.WithLabelValues(source).Inc()
}

// IncStreamConnections increments diagnostics stream connections
func (m *Metrics) IncStreamConnections() {
	m.StreamConnections.Inc()
}

// DecStreamConnections decrements diagnostics stream connections
func (m *Metrics) DecStreamConnections() {
	m.StreamConnections.Dec()
}

// Handler returns the Prometheus exposition handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
