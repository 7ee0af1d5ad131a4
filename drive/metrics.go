package drive

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the VM's prometheus instruments. A nil *Metrics is valid
// and records nothing, so tests and tools can skip registration.
type Metrics struct {
	transitionsProcessed *prometheus.CounterVec
	blocksExecuted       prometheus.Counter
	blockDuration        prometheus.Histogram
}

// NewMetrics registers the VM instruments on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitionsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "platform",
			Subsystem: "drive",
			Name:      "transitions_processed_total",
			Help:      "State transitions processed, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		blocksExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platform",
			Subsystem: "drive",
			Name:      "blocks_executed_total",
			Help:      "Blocks fully executed and committed.",
		}),
		blockDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "platform",
			Subsystem: "drive",
			Name:      "block_execution_seconds",
			Help:      "Wall time spent executing one block.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	reg.MustRegister(m.transitionsProcessed, m.blocksExecuted, m.blockDuration)
	return m
}

func (m *Metrics) transitionProcessed(kind string, success bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if success {
		outcome = "committed"
	}
	m.transitionsProcessed.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) blockExecuted(start time.Time) {
	if m == nil {
		return
	}
	m.blocksExecuted.Inc()
	m.blockDuration.Observe(time.Since(start).Seconds())
}
