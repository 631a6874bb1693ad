package module

import (
	"github.com/replicanet/replica/model/batch"
	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/model/execution"
	"github.com/replicanet/replica/model/network"
)

// StateMachine executes one batch on top of a replicated state.
type StateMachine interface {
	// ExecuteRound executes the batch and returns the resulting state. Execution is
	// deterministic: equal inputs produce equal states on every replica.
	ExecuteRound(
		state *execution.ReplicatedState,
		topology *network.Topology,
		b *batch.Batch,
		features network.SubnetFeatures,
		settings *network.RegistryExecutionSettings,
		nodePublicKeys network.NodePublicKeys,
	) *execution.ReplicatedState
}

// StateManager owns the sequence of committed replicated states.
type StateManager interface {
	// TakeTip returns the height and a copy of the latest committed state.
	TakeTip() (consensus.Height, *execution.ReplicatedState)

	// LatestStateHeight returns the height of the latest committed state.
	LatestStateHeight() consensus.Height

	// CommitAndCertify commits the state at the height and requests its certification
	// with the given scope.
	CommitAndCertify(state *execution.ReplicatedState, height consensus.Height, scope execution.CertificationScope)
}
