package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/replicanet/replica/module"
)

var _ module.MessageRoutingMetrics = (*MessageRoutingCollector)(nil)

type MessageRoutingCollector struct {
	deliverBatchCount    *prometheus.CounterVec
	expectedBatchHeight  prometheus.Gauge
	batchQueueSize       prometheus.Gauge
	processedBatchHeight prometheus.Gauge
	registryVersion      prometheus.Gauge
	phaseDuration        *prometheus.HistogramVec
	registryReadRetries  prometheus.Counter
	criticalErrors       *prometheus.CounterVec
}

func NewMessageRoutingCollector(registerer prometheus.Registerer) *MessageRoutingCollector {
	factory := promauto.With(registerer)
	return &MessageRoutingCollector{
		deliverBatchCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemMessageRouting,
			Name:      "deliver_batch_count",
			Help:      "number of batch deliveries, by outcome",
		}, []string{LabelStatus}),
		expectedBatchHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemMessageRouting,
			Name:      "expected_batch_height",
			Help:      "height of the batch message routing expects to be delivered next",
		}),
		batchQueueSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemMessageRouting,
			Name:      "batch_queue_size",
			Help:      "number of delivered batches waiting to be processed",
		}),
		processedBatchHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemMessageRouting,
			Name:      "processed_batch_height",
			Help:      "height of the last processed batch",
		}),
		registryVersion: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemMessageRouting,
			Name:      "registry_version",
			Help:      "registry version the last processed batch was executed against",
		}),
		phaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemMessageRouting,
			Name:      "process_batch_phase_duration_seconds",
			Help:      "time spent in the phases of batch processing",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{LabelPhase}),
		registryReadRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemMessageRouting,
			Name:      "registry_read_retries_total",
			Help:      "number of registry reads retried after a transient failure",
		}),
		criticalErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemMessageRouting,
			Name:      "critical_errors",
			Help:      "number of critical errors, by error name",
		}, []string{LabelError}),
	}
}

func (c *MessageRoutingCollector) BatchDelivered(status string) {
	c.deliverBatchCount.WithLabelValues(status).Inc()
}

func (c *MessageRoutingCollector) ExpectedBatchHeight(height uint64) {
	c.expectedBatchHeight.Set(float64(height))
}

func (c *MessageRoutingCollector) BatchQueueSize(size uint) {
	c.batchQueueSize.Set(float64(size))
}

func (c *MessageRoutingCollector) BatchProcessed(height uint64, registryVersion uint64) {
	c.processedBatchHeight.Set(float64(height))
	c.registryVersion.Set(float64(registryVersion))
}

func (c *MessageRoutingCollector) ProcessBatchPhaseDuration(phase string, duration time.Duration) {
	c.phaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

func (c *MessageRoutingCollector) RegistryReadRetried() {
	c.registryReadRetries.Inc()
}

func (c *MessageRoutingCollector) CriticalError(name string) {
	c.criticalErrors.WithLabelValues(name).Inc()
}
