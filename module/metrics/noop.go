package metrics

import (
	"time"

	"github.com/replicanet/replica/module"
)

type NoopCollector struct{}

var _ module.ConsensusCacheMetrics = (*NoopCollector)(nil)
var _ module.MessageRoutingMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) FinalizedHeight(height uint64)                                  {}
func (nc *NoopCollector) CatchUpPackageHeight(height uint64)                             {}
func (nc *NoopCollector) SummaryHeight(height uint64)                                    {}
func (nc *NoopCollector) FinalizedChainLength(length int)                                {}
func (nc *NoopCollector) FinalizedChainRebuilt()                                         {}
func (nc *NoopCollector) BatchDelivered(status string)                                   {}
func (nc *NoopCollector) ExpectedBatchHeight(height uint64)                              {}
func (nc *NoopCollector) BatchQueueSize(size uint)                                       {}
func (nc *NoopCollector) BatchProcessed(height uint64, registryVersion uint64)           {}
func (nc *NoopCollector) ProcessBatchPhaseDuration(phase string, duration time.Duration) {}
func (nc *NoopCollector) RegistryReadRetried()                                           {}
func (nc *NoopCollector) CriticalError(name string)                                      {}
