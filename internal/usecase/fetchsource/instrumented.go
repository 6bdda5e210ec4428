package fetchsource

import (
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/metrics"
)

// PrometheusRecorder reports projection outcomes to the metrics package.
// metrics.RegisterSourceMetrics must have been called.
type PrometheusRecorder struct{}

// RecordProjection counts a projection and, unless skipped, its size.
func (PrometheusRecorder) RecordProjection(path Path, ct codec.ContentType, size int) {
	metrics.SourceProjectionsTotal.WithLabelValues(string(path), ct.String()).Inc()
	if path != PathSkipped {
		metrics.SourceProjectedBytes.Observe(float64(size))
	}
}

// RecordProjectionError counts a failed projection.
func (PrometheusRecorder) RecordProjectionError(reason Reason) {
	metrics.SourceProjectionErrorsTotal.WithLabelValues(string(reason)).Inc()
}
