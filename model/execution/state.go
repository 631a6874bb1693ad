package execution

import (
	"time"

	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/model/network"
)

// CertificationScope selects which parts of the state are hashed when it is committed.
type CertificationScope int

const (
	// CertificationScopeMetadata certifies the system metadata only.
	CertificationScopeMetadata CertificationScope = iota
	// CertificationScopeFull certifies the complete state.
	CertificationScopeFull
)

func (s CertificationScope) String() string {
	if s == CertificationScopeFull {
		return "full"
	}
	return "metadata"
}

// SystemMetadata is the part of the replicated state describing the environment it runs in.
type SystemMetadata struct {
	OwnSubnetID        network.SubnetID
	NetworkTopology    *network.Topology
	OwnSubnetFeatures  network.SubnetFeatures
	BatchTime          time.Time
	RegistryVersion    uint64
	NodePublicKeyCount int
}

// ReplicatedState is the deterministic state produced by executing batches in order. The
// canister state itself is owned by the state machine and opaque to message routing.
type ReplicatedState struct {
	Height   consensus.Height
	Metadata SystemMetadata
	// Canisters holds the opaque execution state.
	Canisters interface{}
}
