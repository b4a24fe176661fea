package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration observes request latency by method, route and status
	HTTPRequestDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "rfpdesk_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.99: 0.001,
			},
		},
		[]string{"method", "path", "status_code"},
	)

	// GatewayRequests counts handled API operations by outcome
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfpdesk_gateway_requests_total",
			Help: "Total number of gateway requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// UpstreamDuration observes chat-completion latency per operation
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rfpdesk_upstream_request_duration_seconds",
			Help:    "Duration of chat-completion calls to the LLM provider",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"operation"},
	)

	// UpstreamErrors counts non-2xx provider responses by status code
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfpdesk_upstream_errors_total",
			Help: "Non-success responses from the LLM provider by status code",
		},
		[]string{"operation", "status"},
	)

	// ClientRateLimited counts requests rejected by the per-client limiter
	ClientRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rfpdesk_client_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	// UnknownSKUsDropped counts match results discarded for unknown SKUs
	UnknownSKUsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rfpdesk_match_unknown_skus_dropped_total",
			Help: "Match results dropped because the SKU is not in the catalog",
		},
	)

	// RateLimitBuckets reports the client buckets held by the in-memory limiter
	RateLimitBuckets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rfpdesk_ratelimit_buckets",
			Help: "Client token buckets currently held by the in-memory rate limiter",
		},
	)
)
