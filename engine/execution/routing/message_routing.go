package routing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/replicanet/replica/engine"
	"github.com/replicanet/replica/engine/common/fifoqueue"
	"github.com/replicanet/replica/model/batch"
	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/model/network"
	"github.com/replicanet/replica/module"
	"github.com/replicanet/replica/module/component"
	"github.com/replicanet/replica/module/irrecoverable"
	"github.com/replicanet/replica/module/metrics"
	"github.com/replicanet/replica/registry"
)

// MessageRouting accepts the batches consensus delivers and hands them, in order, to the batch
// processor running on its own worker. Delivery never blocks: when the queue is full the batch
// is rejected and consensus delivers it again later.
type MessageRouting struct {
	*component.ComponentManager
	log          zerolog.Logger
	metrics      module.MessageRoutingMetrics
	stateManager module.StateManager
	processor    BatchProcessor

	// guards the expected height check together with the push
	deliverMu     sync.Mutex
	queue         *fifoqueue.FifoQueue[*batch.Batch]
	notifier      engine.Notifier
	lastSeenBatch *atomic.Uint64
}

var _ component.Component = (*MessageRouting)(nil)

// NewMessageRouting creates the message routing component. Batches queue up until the component
// is started.
// No errors are expected during normal operations.
func NewMessageRouting(
	log zerolog.Logger,
	stateManager module.StateManager,
	processor BatchProcessor,
	collector module.MessageRoutingMetrics,
	cfg *Config,
) (*MessageRouting, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	queue, err := fifoqueue.NewFifoQueue[*batch.Batch](
		fifoqueue.WithCapacity(int(cfg.BatchQueueCapacity)),
		fifoqueue.WithLengthObserver(func(length int) { collector.BatchQueueSize(uint(length)) }),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create batch queue: %w", err)
	}

	m := &MessageRouting{
		log:           log.With().Str("component", "message_routing").Logger(),
		metrics:       collector,
		stateManager:  stateManager,
		processor:     processor,
		queue:         queue,
		notifier:      engine.NewNotifier(),
		lastSeenBatch: atomic.NewUint64(0),
	}
	m.ComponentManager = component.NewComponentManager(m.processBatchesLoop)
	return m, nil
}

// New wires the registry reader, the batch processor and message routing for the own subnet.
// No errors are expected during normal operations.
func New(
	log zerolog.Logger,
	client registry.Client,
	ownSubnetID network.SubnetID,
	stateMachine module.StateMachine,
	stateManager module.StateManager,
	collector module.MessageRoutingMetrics,
	opts ...OptionFunc,
) (*MessageRouting, error) {
	cfg := DefaultConfig(ownSubnetID)
	for _, apply := range opts {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reader, err := NewRegistryReader(log, client, collector, cfg)
	if err != nil {
		return nil, err
	}
	processor, err := NewBatchProcessor(log, reader, stateMachine, stateManager, collector, cfg)
	if err != nil {
		return nil, err
	}
	return NewMessageRouting(log, stateManager, processor, collector, cfg)
}

// ExpectedBatchHeight returns the number of the next batch to deliver: one above the latest
// state or the last delivered batch, whichever is higher.
func (m *MessageRouting) ExpectedBatchHeight() consensus.Height {
	latest := m.stateManager.LatestStateHeight()
	if lastSeen := consensus.Height(m.lastSeenBatch.Load()); lastSeen > latest {
		latest = lastSeen
	}
	return latest + 1
}

// DeliverBatch queues the batch for processing.
// Expected errors during normal operations:
//   - BatchIgnoredError if the batch is not the expected next batch
//   - ErrQueueIsFull if the batch queue is at capacity
func (m *MessageRouting) DeliverBatch(b *batch.Batch) error {
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()

	expected := m.ExpectedBatchHeight()
	m.metrics.ExpectedBatchHeight(uint64(expected))
	if b.BatchNumber != expected {
		m.metrics.BatchDelivered(metrics.DeliverStatusIgnored)
		m.log.Debug().
			Uint64("batch_number", uint64(b.BatchNumber)).
			Uint64("expected_batch_number", uint64(expected)).
			Msg("ignoring unexpected batch")
		return NewBatchIgnoredError(expected, b.BatchNumber)
	}

	if !m.queue.Push(b) {
		m.metrics.BatchDelivered(metrics.DeliverStatusQueueFull)
		return ErrQueueIsFull
	}
	m.lastSeenBatch.Store(uint64(b.BatchNumber))
	m.metrics.BatchDelivered(metrics.DeliverStatusSuccess)
	m.notifier.Notify()
	return nil
}

// processBatchesLoop drains the queue whenever it is notified of a new batch.
func (m *MessageRouting) processBatchesLoop(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	ready()

	// batches may have been delivered before the component started
	m.notifier.Notify()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.notifier.Channel():
			err := m.processQueuedBatches(ctx)
			if err != nil {
				ctx.Throw(err)
			}
		}
	}
}

// processQueuedBatches processes batches until the queue is empty. Returns nil if ctx is
// cancelled, and any error of the batch processor otherwise.
func (m *MessageRouting) processQueuedBatches(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		b, ok := m.queue.Pop()
		if !ok {
			return nil
		}
		err := m.processor.ProcessBatch(ctx, b)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		if err != nil {
			m.metrics.CriticalError(metrics.CriticalErrorBatchProcessing)
			return fmt.Errorf("could not process batch %d: %w", b.BatchNumber, err)
		}
	}
}
