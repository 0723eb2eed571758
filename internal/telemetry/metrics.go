package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP server metrics.
var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "orderstatus",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, endpoint and status code",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderstatus",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, endpoint and status code",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "orderstatus",
			Name:      "http_active_connections",
			Help:      "Number of in-flight HTTP requests",
		},
	)
)

// Key resolver metrics. The tier label records which tier produced the key:
// memory, shared, scrape or fallback.
var (
	KeyResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderstatus",
			Name:      "apikey_resolutions_total",
			Help:      "API key resolutions by serving tier",
		},
		[]string{"tier"},
	)

	KeyScrapeFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "orderstatus",
			Name:      "apikey_scrape_failures_total",
			Help:      "Failed attempts to scrape the API key from the origin page",
		},
	)
)

// Upstream order API metrics.
var (
	UpstreamRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "orderstatus",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of order lookups against the upstream tracking API",
			Buckets:   prometheus.DefBuckets,
		},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderstatus",
			Name:      "upstream_requests_total",
			Help:      "Order lookups against the upstream tracking API by outcome",
		},
		[]string{"outcome"},
	)
)
