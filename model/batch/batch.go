package batch

import (
	"time"

	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/model/network"
)

// Batch is one round's worth of ordered input for deterministic execution. Consensus
// produces exactly one batch per finalized height, numbered by that height.
type Batch struct {
	// BatchNumber is the height of the finalized block the batch was derived from.
	BatchNumber consensus.Height
	// RequiresFullStateHash requests a full state certification instead of a metadata-only one.
	RequiresFullStateHash bool
	Messages              Messages
	Randomness            [32]byte
	EcdsaSubnetPublicKeys map[network.EcdsaKeyID][]byte
	// RegistryVersion is the registry version the batch must be executed against.
	RegistryVersion    uint64
	Time               time.Time
	ConsensusResponses []ConsensusResponse
}

// Messages are the ingress and cross-subnet messages included in the batch.
type Messages struct {
	Ingress [][]byte
	XNet    map[network.SubnetID][][]byte
}

// ConsensusResponse is a response produced by consensus for a request made by execution,
// e.g. a threshold signature.
type ConsensusResponse struct {
	CallbackID uint64
	Payload    []byte
}
