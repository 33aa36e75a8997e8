// Package observe records remote-operation metrics for the repository
// client.
package observe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder observes the outcome and duration of one remote operation.
type Recorder interface {
	Observe(operation string, err error, duration time.Duration)
}

// NopRecorder discards all observations.
type NopRecorder struct{}

// Observe implements Recorder.
func (NopRecorder) Observe(string, error, time.Duration) {}

// PromRecorder publishes remote-operation counters and latency histograms to
// a Prometheus registry.
type PromRecorder struct {
	ops *prometheus.CounterVec
	dur *prometheus.HistogramVec
}

// NewPromRecorder constructs a recorder and registers its collectors with
// reg. Passing nil uses the default registerer.
func NewPromRecorder(reg prometheus.Registerer) *PromRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PromRecorder{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fedstream_remote_operations_total",
			Help: "Remote repository operations by operation and status.",
		}, []string{"operation", "status"}),
		dur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fedstream_remote_operation_duration_seconds",
			Help:    "Remote repository operation latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(r.ops, r.dur)
	return r
}

// Observe implements Recorder.
func (r *PromRecorder) Observe(operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.ops.WithLabelValues(operation, status).Inc()
	r.dur.WithLabelValues(operation).Observe(duration.Seconds())
}
