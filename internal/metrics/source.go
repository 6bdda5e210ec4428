package metrics

import "github.com/prometheus/client_golang/prometheus"

// Namespace prefixes every hitsource metric.
const Namespace = "hitsource"

// Source projection Prometheus metrics.
var (
	SourceProjectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "source_projections_total",
			Help:      "Total number of _source projections by path",
		},
		[]string{"path", "content_type"}, // skipped / raw / filtered / nested
	)

	SourceProjectionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "source_projection_errors_total",
			Help:      "Total number of failed _source projections",
		},
		[]string{"reason"},
	)

	SourceProjectedBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "source_projected_bytes",
			Help:      "Size of projected _source payloads in bytes",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8), // 64B .. 1MB
		},
	)
)

var sourceMetricsRegistered bool

// RegisterSourceMetrics registers Prometheus source projection metrics. Must be called once from main.
func RegisterSourceMetrics() {
	if sourceMetricsRegistered {
		return
	}
	prometheus.MustRegister(SourceProjectionsTotal)
	prometheus.MustRegister(SourceProjectionErrorsTotal)
	prometheus.MustRegister(SourceProjectedBytes)
	sourceMetricsRegistered = true
}
