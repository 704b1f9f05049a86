// Package observability provides Prometheus metrics for the aichat stream
// client and HTTP middleware for the mock backend.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for streamed completions,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// StreamRequestsTotal counts chat stream calls by variant, model, and outcome.
	StreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_stream_requests_total",
			Help: "Chat stream calls",
		},
		[]string{"variant", "model", "status"},
	)

	// StreamDuration records the wall time of a chat stream call in seconds.
	StreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aichat_stream_duration_seconds",
			Help:    "Chat stream duration",
			Buckets: LLMBuckets,
		},
		[]string{"model"},
	)

	// StreamChunksTotal counts content fragments delivered to callers.
	StreamChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_stream_chunks_total",
			Help: "Streamed content fragments",
		},
		[]string{"model"},
	)

	// StreamReconnectsTotal counts reconnect attempts after transport errors.
	StreamReconnectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_stream_reconnects_total",
			Help: "Stream reconnect attempts",
		},
		[]string{"model"},
	)

	// MalformedEventsTotal counts SSE payloads that could not be decoded.
	MalformedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_stream_malformed_events_total",
			Help: "Skipped malformed stream events",
		},
		[]string{"model"},
	)

	// StreamingSessions tracks the number of open stream sessions.
	StreamingSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aichat_streaming_sessions_active",
			Help: "Active stream sessions",
		},
	)

	// RequestsTotal counts HTTP requests served, by method, status class, and path.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status", "path"},
	)

	// RequestDuration records HTTP request duration in seconds by method and path.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aichat_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "path"},
	)

	// StreamingConnections tracks SSE responses currently being served.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aichat_streaming_connections_active",
			Help: "Active streaming connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		StreamRequestsTotal,
		StreamDuration,
		StreamChunksTotal,
		StreamReconnectsTotal,
		MalformedEventsTotal,
		StreamingSessions,
		RequestsTotal,
		RequestDuration,
		StreamingConnections,
	)
}
