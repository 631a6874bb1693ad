package routing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/replicanet/replica/engine/execution/routing"
	"github.com/replicanet/replica/model/batch"
	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/model/execution"
	"github.com/replicanet/replica/model/network"
	"github.com/replicanet/replica/module/metrics"
	mockmodule "github.com/replicanet/replica/module/mock"
	"github.com/replicanet/replica/registry"
	"github.com/replicanet/replica/utils/unittest"
)

type BatchProcessorSuite struct {
	suite.Suite

	own          network.SubnetID
	registry     *unittest.RegistryFixture
	stateMachine *mockmodule.StateMachine
	stateManager *mockmodule.StateManager
	metrics      *mockmodule.MessageRoutingMetrics
	processor    *routing.BatchProcessorImpl
}

func TestBatchProcessor(t *testing.T) {
	suite.Run(t, new(BatchProcessorSuite))
}

func (s *BatchProcessorSuite) SetupTest() {
	s.own = unittest.SubnetIDFixture()
	s.registry = unittest.NewRegistryFixture(s.T())
	s.stateMachine = mockmodule.NewStateMachine(s.T())
	s.stateManager = mockmodule.NewStateManager(s.T())

	// critical errors are not expected unless a test sets them up
	s.metrics = mockmodule.NewMessageRoutingMetrics(s.T())
	s.metrics.On("ProcessBatchPhaseDuration", mock.Anything, mock.Anything).Return().Maybe()
	s.metrics.On("BatchProcessed", mock.Anything, mock.Anything).Return().Maybe()

	cfg := routing.DefaultConfig(s.own)
	routing.WithRegistryRetryInterval(10 * time.Millisecond)(cfg)
	reader, err := routing.NewRegistryReader(unittest.Logger(), s.registry.Client, s.metrics, cfg)
	s.Require().NoError(err)
	s.processor, err = routing.NewBatchProcessor(unittest.Logger(), reader, s.stateMachine, s.stateManager, s.metrics, cfg)
	s.Require().NoError(err)
}

// records returns a complete registry for the own subnet with one member.
func (s *BatchProcessorSuite) records() map[string]interface{} {
	node := unittest.NodeIDFixture()
	records := unittest.MinimalRegistryRecords(unittest.SubnetIDFixture(), s.own)
	records[registry.SubnetRecordKey(s.own)] = &registry.SubnetRecord{
		Membership:           []network.NodeID{node},
		MaxNumberOfCanisters: 10,
	}
	records[registry.CryptoRecordKey(node, registry.KeyPurposeNodeSigning)] = unittest.NodeSigningKeyRecordFixture(s.T())
	return records
}

func (s *BatchProcessorSuite) tip(height consensus.Height) *execution.ReplicatedState {
	state := &execution.ReplicatedState{
		Height:   height,
		Metadata: execution.SystemMetadata{OwnSubnetID: s.own},
	}
	s.stateManager.On("TakeTip").Return(height, state).Once()
	return state
}

func (s *BatchProcessorSuite) TestProcessBatch() {
	version := s.registry.Write(s.records())
	state := s.tip(2)
	b := unittest.BatchFixture(3, unittest.WithRegistryVersion(version))

	next := &execution.ReplicatedState{Height: 3}
	s.stateMachine.On("ExecuteRound", state, mock.Anything, b, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			topology := args.Get(1).(*network.Topology)
			s.Assert().Contains(topology.Subnets, s.own)
			settings := args.Get(4).(*network.RegistryExecutionSettings)
			s.Assert().Equal(uint64(10), settings.MaxNumberOfCanisters)
			s.Assert().Equal(1, settings.SubnetSize)
			s.Assert().Len(args.Get(5).(network.NodePublicKeys), 1)
		}).
		Return(next).Once()
	s.stateManager.On("CommitAndCertify", next, consensus.Height(3), execution.CertificationScopeMetadata).Once()

	s.Require().NoError(s.processor.ProcessBatch(context.Background(), b))
	s.metrics.AssertCalled(s.T(), "BatchProcessed", uint64(3), version)
}

func (s *BatchProcessorSuite) TestProcessBatch_FullStateHash() {
	version := s.registry.Write(s.records())
	state := s.tip(7)
	b := unittest.BatchFixture(8, unittest.WithRegistryVersion(version), unittest.WithFullStateHash())

	next := &execution.ReplicatedState{Height: 8}
	s.stateMachine.On("ExecuteRound", state, mock.Anything, b, mock.Anything, mock.Anything, mock.Anything).Return(next).Once()
	s.stateManager.On("CommitAndCertify", next, consensus.Height(8), execution.CertificationScopeFull).Once()

	s.Require().NoError(s.processor.ProcessBatch(context.Background(), b))
}

func (s *BatchProcessorSuite) TestProcessBatch_SkipsProcessedBatch() {
	s.tip(5)
	s.Require().NoError(s.processor.ProcessBatch(context.Background(), unittest.BatchFixture(5)))
	s.tip(5)
	s.Require().NoError(s.processor.ProcessBatch(context.Background(), unittest.BatchFixture(3)))
	s.stateMachine.AssertNotCalled(s.T(), "ExecuteRound", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *BatchProcessorSuite) TestProcessBatch_Gap() {
	s.tip(5)
	err := s.processor.ProcessBatch(context.Background(), unittest.BatchFixture(7))
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "does not extend the latest state at height 5")
}

// A registry version that is not available yet is waited for without raising a critical error.
func (s *BatchProcessorSuite) TestProcessBatch_TransientRegistryError() {
	state := s.tip(0)
	b := unittest.BatchFixture(1, unittest.WithRegistryVersion(s.registry.Version()+1))

	retried := make(chan struct{})
	s.metrics.On("RegistryReadRetried").Return().Run(func(mock.Arguments) {
		select {
		case <-retried:
		default:
			close(retried)
		}
	})
	next := &execution.ReplicatedState{Height: 1}
	s.stateMachine.On("ExecuteRound", state, mock.Anything, b, mock.Anything, mock.Anything, mock.Anything).Return(next).Once()
	s.stateManager.On("CommitAndCertify", next, consensus.Height(1), execution.CertificationScopeMetadata).Once()

	go func() {
		<-retried
		s.registry.Write(s.records())
	}()
	unittest.RequireReturnsBefore(s.T(), func() {
		s.Require().NoError(s.processor.ProcessBatch(context.Background(), b))
	}, 2*time.Second, "batch was not processed after the registry version became available")
	s.metrics.AssertNotCalled(s.T(), "CriticalError", mock.Anything)
}

func (s *BatchProcessorSuite) TestProcessBatch_PersistentRegistryError() {
	records := s.records()
	delete(records, registry.RootSubnetIDKey)
	version := s.registry.Write(records)
	s.tip(0)

	s.metrics.On("CriticalError", metrics.CriticalErrorFailedToReadRegistry).Return().Once()
	err := s.processor.ProcessBatch(context.Background(), unittest.BatchFixture(1, unittest.WithRegistryVersion(version)))
	s.Require().Error(err)
	s.Assert().True(routing.IsPersistentError(err))
}

func (s *BatchProcessorSuite) TestProcessBatch_CancelledWhileWaitingForRegistry() {
	s.tip(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// shut down while the processor waits for the missing version
	s.metrics.On("RegistryReadRetried").Return().Run(func(mock.Arguments) { cancel() })
	b := unittest.BatchFixture(1, unittest.WithRegistryVersion(s.registry.Version()+1))

	errs := make(chan error, 1)
	go func() {
		errs <- s.processor.ProcessBatch(ctx, b)
	}()

	select {
	case err := <-errs:
		s.Assert().True(errors.Is(err, context.Canceled), "unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		s.T().Fatal("batch processing did not stop after cancellation")
	}
}

func TestBatchProcessor_TopologyPassedToState(t *testing.T) {
	own := unittest.SubnetIDFixture()
	fixture := unittest.NewRegistryFixture(t)
	version := fixture.Write(unittest.MinimalRegistryRecords(own, own))

	stateMachine := mockmodule.NewStateMachine(t)
	stateManager := mockmodule.NewStateManager(t)
	cfg := routing.DefaultConfig(own)
	reader, err := routing.NewRegistryReader(unittest.Logger(), fixture.Client, metrics.NewNoopCollector(), cfg)
	require.NoError(t, err)
	processor, err := routing.NewBatchProcessor(unittest.Logger(), reader, stateMachine, stateManager, metrics.NewNoopCollector(), cfg)
	require.NoError(t, err)

	state := &execution.ReplicatedState{}
	stateManager.On("TakeTip").Return(consensus.Height(0), state)
	stateMachine.On("ExecuteRound", state, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(state *execution.ReplicatedState, topology *network.Topology, b *batch.Batch, features network.SubnetFeatures, settings *network.RegistryExecutionSettings, keys network.NodePublicKeys) *execution.ReplicatedState {
			next := *state
			next.Height = b.BatchNumber
			next.Metadata.NetworkTopology = topology
			next.Metadata.OwnSubnetFeatures = features
			next.Metadata.RegistryVersion = b.RegistryVersion
			return &next
		})
	var committed *execution.ReplicatedState
	stateManager.On("CommitAndCertify", mock.Anything, consensus.Height(1), execution.CertificationScopeMetadata).
		Run(func(args mock.Arguments) {
			committed = args.Get(0).(*execution.ReplicatedState)
		})

	require.NoError(t, processor.ProcessBatch(context.Background(), unittest.BatchFixture(1, unittest.WithRegistryVersion(version))))
	require.NotNil(t, committed)
	assert.Equal(t, own, committed.Metadata.NetworkTopology.NNSSubnetID)
	assert.Equal(t, version, committed.Metadata.RegistryVersion)
	assert.Contains(t, committed.Metadata.NetworkTopology.Subnets, own)
}
