package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// VFSMetrics records filesystem operation counts and latencies, labeled by
// operation name and outcome ("ok", the error kind, or "error").
type VFSMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	crossShard *prometheus.CounterVec
}

// NewVFSMetrics creates Prometheus-backed filesystem metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called); all
// recorder methods tolerate a nil receiver.
func NewVFSMetrics() *VFSMetrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &VFSMetrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cfs_vfs_operations_total",
				Help: "Total number of filesystem operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cfs_vfs_operation_duration_seconds",
				Help:    "Filesystem operation latency in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		crossShard: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cfs_vfs_cross_shard_operations_total",
				Help: "Total number of operations routed through the cross-shard orchestrator",
			},
			[]string{"operation"},
		),
	}
}

// RecordOperation records one completed operation with its outcome and latency.
func (m *VFSMetrics) RecordOperation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordCrossShard records that an operation needed cross-shard choreography.
func (m *VFSMetrics) RecordCrossShard(operation string) {
	if m == nil {
		return
	}
	m.crossShard.WithLabelValues(operation).Inc()
}
