package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for AdSpark
type Metrics struct {
	// Text generation
	CompletionRequestsTotal *prometheus.CounterVec
	CompletionDuration      *prometheus.HistogramVec
	GenerationsTotal        *prometheus.CounterVec

	// Campaign lifecycle
	CampaignsCreatedTotal prometheus.Counter
	CampaignsActive       prometheus.Gauge
	DeploysTotal          *prometheus.CounterVec
	ChatMessagesTotal     prometheus.Counter

	// API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec
	RateLimitExceededTotal    prometheus.Counter

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		CompletionRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adspark_completion_requests_total",
				Help: "Total number of completion endpoint calls by operation and result",
			},
			[]string{"operation", "result"},
		),
		CompletionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adspark_completion_duration_seconds",
				Help:    "Completion endpoint call latency",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"operation"},
		),
		GenerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adspark_generations_total",
				Help: "Variant generations by outcome (generated, fallback, stale)",
			},
			[]string{"outcome"},
		),
		CampaignsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "adspark_campaigns_created_total",
				Help: "Total number of campaigns created from uploads",
			},
		),
		CampaignsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "adspark_campaigns_active",
				Help: "Number of campaigns currently held in memory",
			},
		),
		DeploysTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adspark_deploys_total",
				Help: "Deploy acknowledgments by notifier result",
			},
			[]string{"result"},
		),
		ChatMessagesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "adspark_chat_messages_total",
				Help: "Total number of chat messages answered",
			},
		),
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adspark_api_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adspark_api_request_duration_seconds",
				Help:    "HTTP API request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RateLimitExceededTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "adspark_rate_limit_exceeded_total",
				Help: "Requests rejected by the generation rate limiter",
			},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.CompletionRequestsTotal,
		m.CompletionDuration,
		m.GenerationsTotal,
		m.CampaignsCreatedTotal,
		m.CampaignsActive,
		m.DeploysTotal,
		m.ChatMessagesTotal,
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		m.RateLimitExceededTotal,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// ObserveCompletion records one completion endpoint call.
func ObserveCompletion(operation, result string, seconds float64) {
	m := Global()
	if m != nil {
		m.CompletionRequestsTotal.WithLabelValues(operation, result).Inc()
		m.CompletionDuration.WithLabelValues(operation).Observe(seconds)
	}
}

// IncGenerations increments the generation outcome counter
func IncGenerations(outcome string) {
	m := Global()
	if m != nil {
		m.GenerationsTotal.WithLabelValues(outcome).Inc()
	}
}

// IncCampaignsCreated increments created campaigns and the active gauge
func IncCampaignsCreated() {
	m := Global()
	if m != nil {
		m.CampaignsCreatedTotal.Inc()
		m.CampaignsActive.Inc()
	}
}

// DecCampaignsActive decrements the active campaign gauge
func DecCampaignsActive() {
	m := Global()
	if m != nil {
		m.CampaignsActive.Dec()
	}
}

// IncDeploys increments the deploy counter
func IncDeploys(result string) {
	m := Global()
	if m != nil {
		m.DeploysTotal.WithLabelValues(result).Inc()
	}
}

// IncChatMessages increments the chat message counter
func IncChatMessages() {
	m := Global()
	if m != nil {
		m.ChatMessagesTotal.Inc()
	}
}

// IncRateLimitExceeded increments rate limit exceeded counter
func IncRateLimitExceeded() {
	m := Global()
	if m != nil {
		m.RateLimitExceededTotal.Inc()
	}
}

// ObserveAPIRequest records one HTTP request
func ObserveAPIRequest(method, path, status string, seconds float64) {
	m := Global()
	if m != nil {
		m.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.APIRequestDurationSeconds.WithLabelValues(method, path).Observe(seconds)
	}
}
