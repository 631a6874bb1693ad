package module

import (
	"time"
)

// ConsensusCacheMetrics tracks the state of the consensus pool cache.
type ConsensusCacheMetrics interface {
	// FinalizedHeight reports the height of the cached finalized block.
	FinalizedHeight(height uint64)

	// CatchUpPackageHeight reports the height of the cached catch-up package.
	CatchUpPackageHeight(height uint64)

	// SummaryHeight reports the height of the cached DKG summary block.
	SummaryHeight(height uint64)

	// FinalizedChainLength reports the number of blocks in the cached finalized chain.
	FinalizedChainLength(length int)

	// FinalizedChainRebuilt is called whenever the finalized chain is rebuilt because the
	// summary block changed.
	FinalizedChainRebuilt()
}

// MessageRoutingMetrics tracks batch delivery and processing.
type MessageRoutingMetrics interface {
	// BatchDelivered counts a call to deliver a batch, labelled by its outcome.
	BatchDelivered(status string)

	// ExpectedBatchHeight reports the batch height message routing expects next.
	ExpectedBatchHeight(height uint64)

	// BatchQueueSize reports the number of batches waiting to be processed.
	BatchQueueSize(size uint)

	// BatchProcessed reports the height of the last processed batch and the registry version
	// it was executed against.
	BatchProcessed(height uint64, registryVersion uint64)

	// ProcessBatchPhaseDuration reports the time spent in one phase of batch processing.
	ProcessBatchPhaseDuration(phase string, duration time.Duration)

	// RegistryReadRetried counts retries of a registry read that failed transiently.
	RegistryReadRetried()

	// CriticalError counts an error that must never happen in a healthy replica.
	CriticalError(name string)
}
