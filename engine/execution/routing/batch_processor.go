package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/exp/maps"

	"github.com/replicanet/replica/model/batch"
	"github.com/replicanet/replica/model/execution"
	"github.com/replicanet/replica/model/network"
	"github.com/replicanet/replica/module"
	"github.com/replicanet/replica/module/metrics"
	"github.com/replicanet/replica/utils/logging"
)

// BatchProcessor executes batches in order on top of the latest committed state.
type BatchProcessor interface {
	// ProcessBatch executes the batch and commits the resulting state. Batches at or below the
	// latest state height are skipped.
	// Returns ctx.Err() if the context is cancelled while waiting for the registry version.
	// Any other error is fatal to the replica.
	ProcessBatch(ctx context.Context, b *batch.Batch) error
}

// registryView is everything read from the registry for one batch.
type registryView struct {
	topology       *network.Topology
	features       network.SubnetFeatures
	settings       *network.RegistryExecutionSettings
	nodePublicKeys network.NodePublicKeys
}

type BatchProcessorImpl struct {
	log           zerolog.Logger
	reader        *RegistryReader
	stateMachine  module.StateMachine
	stateManager  module.StateManager
	metrics       module.MessageRoutingMetrics
	retryInterval time.Duration
}

var _ BatchProcessor = (*BatchProcessorImpl)(nil)

func NewBatchProcessor(
	log zerolog.Logger,
	reader *RegistryReader,
	stateMachine module.StateMachine,
	stateManager module.StateManager,
	metrics module.MessageRoutingMetrics,
	cfg *Config,
) (*BatchProcessorImpl, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BatchProcessorImpl{
		log:           log.With().Str("component", "batch_processor").Logger(),
		reader:        reader,
		stateMachine:  stateMachine,
		stateManager:  stateManager,
		metrics:       metrics,
		retryInterval: cfg.RegistryRetryInterval,
	}, nil
}

func (p *BatchProcessorImpl) ProcessBatch(ctx context.Context, b *batch.Batch) error {
	start := time.Now()
	log := p.log.With().
		Uint64("batch_number", uint64(b.BatchNumber)).
		Uint64("registry_version", b.RegistryVersion).
		Logger()

	height, state := p.stateManager.TakeTip()
	if b.BatchNumber <= height {
		log.Debug().Uint64("state_height", uint64(height)).Msg("skipping batch at or below the latest state")
		return nil
	}
	if b.BatchNumber != height+1 {
		return fmt.Errorf("batch %d does not extend the latest state at height %d", b.BatchNumber, height)
	}

	phaseStart := time.Now()
	view, err := p.readRegistry(ctx, log, b.RegistryVersion)
	if err != nil {
		return err
	}
	p.metrics.ProcessBatchPhaseDuration(metrics.PhaseReadRegistry, time.Since(phaseStart))

	if !cmp.Equal(state.Metadata.NetworkTopology, view.topology) {
		log.Info().
			Strs("subnets", logging.SubnetIDs(maps.Keys(view.topology.Subnets))).
			Msg("network topology changed")
		if log.Debug().Enabled() {
			log.Debug().Str("diff", cmp.Diff(state.Metadata.NetworkTopology, view.topology)).Msg("network topology diff")
		}
	}

	phaseStart = time.Now()
	state = p.stateMachine.ExecuteRound(state, view.topology, b, view.features, view.settings, view.nodePublicKeys)
	p.metrics.ProcessBatchPhaseDuration(metrics.PhaseExecuteRound, time.Since(phaseStart))

	scope := execution.CertificationScopeMetadata
	if b.RequiresFullStateHash {
		scope = execution.CertificationScopeFull
	}
	phaseStart = time.Now()
	p.stateManager.CommitAndCertify(state, b.BatchNumber, scope)
	p.metrics.ProcessBatchPhaseDuration(metrics.PhaseCommitState, time.Since(phaseStart))

	p.metrics.BatchProcessed(uint64(b.BatchNumber), b.RegistryVersion)
	p.metrics.ProcessBatchPhaseDuration(metrics.PhaseProcessBatch, time.Since(start))
	log.Debug().
		Str("certification_scope", scope.String()).
		Dur("duration", time.Since(start)).
		Msg("batch processed")
	return nil
}

// readRegistry reads the registry at the version, waiting for the version to become available
// locally. It only gives up on a persistent error or when ctx is cancelled.
func (p *BatchProcessorImpl) readRegistry(ctx context.Context, log zerolog.Logger, version uint64) (*registryView, error) {
	backoff := retry.NewConstant(p.retryInterval)

	var view registryView
	attempts := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		topology, features, settings, keys, err := p.reader.ReadRegistry(version)
		if IsTransientError(err) {
			if attempts == 1 {
				log.Info().Err(err).Msg("registry version not available yet, retrying")
			}
			p.metrics.RegistryReadRetried()
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		view = registryView{
			topology:       topology,
			features:       features,
			settings:       settings,
			nodePublicKeys: keys,
		}
		return nil
	})
	if err != nil {
		if IsPersistentError(err) {
			p.metrics.CriticalError(metrics.CriticalErrorFailedToReadRegistry)
			log.Error().
				Err(err).
				Str("critical_error", metrics.CriticalErrorFailedToReadRegistry).
				Msg("failed to read registry")
		}
		return nil, fmt.Errorf("could not read registry at version %d: %w", version, err)
	}
	return &view, nil
}
