package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/replicanet/replica/module"
)

var _ module.ConsensusCacheMetrics = (*ConsensusCacheCollector)(nil)

type ConsensusCacheCollector struct {
	finalizedHeight      prometheus.Gauge
	catchUpPackageHeight prometheus.Gauge
	summaryHeight        prometheus.Gauge
	chainLength          prometheus.Gauge
	chainRebuilds        prometheus.Counter
}

func NewConsensusCacheCollector(registerer prometheus.Registerer) *ConsensusCacheCollector {
	factory := promauto.With(registerer)
	return &ConsensusCacheCollector{
		finalizedHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceConsensus,
			Subsystem: subsystemCache,
			Name:      "finalized_height",
			Help:      "height of the finalized block held by the consensus cache",
		}),
		catchUpPackageHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceConsensus,
			Subsystem: subsystemCache,
			Name:      "catch_up_package_height",
			Help:      "height of the catch-up package held by the consensus cache",
		}),
		summaryHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceConsensus,
			Subsystem: subsystemCache,
			Name:      "summary_height",
			Help:      "height of the current DKG summary block",
		}),
		chainLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceConsensus,
			Subsystem: subsystemCache,
			Name:      "finalized_chain_length",
			Help:      "number of blocks between the summary block and the finalized tip, inclusive",
		}),
		chainRebuilds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceConsensus,
			Subsystem: subsystemCache,
			Name:      "finalized_chain_rebuilds_total",
			Help:      "number of times the finalized chain was rebuilt for a new DKG interval",
		}),
	}
}

func (c *ConsensusCacheCollector) FinalizedHeight(height uint64) {
	c.finalizedHeight.Set(float64(height))
}

func (c *ConsensusCacheCollector) CatchUpPackageHeight(height uint64) {
	c.catchUpPackageHeight.Set(float64(height))
}

func (c *ConsensusCacheCollector) SummaryHeight(height uint64) {
	c.summaryHeight.Set(float64(height))
}

func (c *ConsensusCacheCollector) FinalizedChainLength(length int) {
	c.chainLength.Set(float64(length))
}

func (c *ConsensusCacheCollector) FinalizedChainRebuilt() {
	c.chainRebuilds.Inc()
}
