package pool

import (
	"errors"

	"github.com/replicanet/replica/model/consensus"
)

var (
	// ErrNotFound is returned when no artifact matches a query.
	ErrNotFound = errors.New("artifact not found in consensus pool")
	// ErrNotUnique is returned when a query expecting exactly one artifact matches several.
	ErrNotUnique = errors.New("more than one artifact matches")
)

// ConsensusPool is the read interface of the consensus pool. Only the validated section is
// consulted by the consensus cache.
type ConsensusPool interface {
	Validated() ValidatedPool
}

// ValidatedPool gives typed, height-indexed access to the validated artifacts. Every call
// observes a consistent snapshot of the pool; consecutive calls may observe different ones.
type ValidatedPool interface {
	BlockProposal() HeightIndexedPool[*consensus.BlockProposal]
	Notarization() HeightIndexedPool[*consensus.Notarization]
	Finalization() HeightIndexedPool[*consensus.Finalization]
	CatchUpPackage() HeightIndexedPool[*consensus.CatchUpPackage]

	// HighestCatchUpPackageRaw returns the raw form of the highest validated catch-up package.
	// A pool always holds at least the genesis catch-up package.
	HighestCatchUpPackageRaw() *consensus.CatchUpPackageRaw
}

// HeightIndexedPool is a section of the pool holding one artifact type.
type HeightIndexedPool[T consensus.ConsensusMessage] interface {
	// GetByHeight returns all artifacts at the given height, possibly none.
	GetByHeight(height consensus.Height) []T

	// GetOnlyByHeight returns the single artifact at the given height.
	// Expected errors during normal operations:
	//  - ErrNotFound if there is no artifact at the height
	//  - ErrNotUnique if there is more than one
	GetOnlyByHeight(height consensus.Height) (T, error)

	// GetHighest returns the single artifact at the highest height present.
	// Expected errors during normal operations:
	//  - ErrNotFound if the section is empty
	//  - ErrNotUnique if there is more than one artifact at the highest height
	GetHighest() (T, error)

	// MaxHeight returns the highest height present, false if the section is empty.
	MaxHeight() (consensus.Height, bool)
}
