package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	upstreamRequests *prometheus.CounterVec
	upstreamErrors   *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	partialFailures  *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		upstreamRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_upstream_requests_total",
				Help: "Total number of upstream provider requests",
			},
			[]string{"provider", "operation"},
		),
		upstreamErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_upstream_errors_total",
				Help: "Total number of failed upstream provider requests",
			},
			[]string{"provider", "operation", "kind"},
		),
		upstreamLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_upstream_duration_seconds",
				Help:    "Duration of upstream provider requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "operation"},
		),
		partialFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_fanout_partial_failures_total",
				Help: "Quote fan-out sub-requests that failed and were dropped from the batch",
			},
			[]string{"operation"},
		),
	}
}

// RecordUpstreamRequest records one upstream call.
func (r *Recorder) RecordUpstreamRequest(provider, op string) {
	r.upstreamRequests.WithLabelValues(provider, op).Inc()
}

// RecordUpstreamError records a failed upstream call. kind is "transport" or "data".
func (r *Recorder) RecordUpstreamError(provider, op, kind string) {
	r.upstreamErrors.WithLabelValues(provider, op, kind).Inc()
}

// RecordUpstreamLatency records upstream call latency in seconds.
func (r *Recorder) RecordUpstreamLatency(provider, op string, seconds float64) {
	r.upstreamLatency.WithLabelValues(provider, op).Observe(seconds)
}

// RecordPartialFailure records one swallowed per-symbol failure in a fan-out.
func (r *Recorder) RecordPartialFailure(op string) {
	r.partialFailures.WithLabelValues(op).Inc()
}
