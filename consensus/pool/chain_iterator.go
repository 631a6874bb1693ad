package pool

import (
	"github.com/replicanet/replica/model/consensus"
)

// ChainIterator lazily walks the ancestors of a block, from the block itself down to
// genesis, the optional lower bound, or the first ancestor missing from the pool,
// whichever comes first. Parents are resolved by matching the child's parent hash
// against the validated proposals one height below; the block of the highest
// catch-up package is consulted as well, since proposals below it may be purged.
//
// The iterator is restartable in the sense that creating a new one from the same
// block yields the same sequence, as long as the pool still holds the ancestors.
type ChainIterator struct {
	pool ConsensusPool
	next *consensus.Block
	stop *consensus.Height
	cup  *consensus.CatchUpPackage
}

// NewChainIterator returns an iterator starting at `from`. If `to` is not nil the
// iteration ends after the block at that height.
func NewChainIterator(pool ConsensusPool, from *consensus.Block, to *consensus.Height) *ChainIterator {
	return &ChainIterator{
		pool: pool,
		next: from,
		stop: to,
	}
}

// Next returns the next ancestor, or false once the iteration is over.
func (it *ChainIterator) Next() (*consensus.Block, bool) {
	current := it.next
	if current == nil {
		return nil, false
	}
	if it.stop != nil && current.Height < *it.stop {
		it.next = nil
		return nil, false
	}
	if current.Height == 0 || (it.stop != nil && current.Height == *it.stop) {
		it.next = nil
	} else {
		it.next = it.parent(current)
	}
	return current, true
}

func (it *ChainIterator) parent(block *consensus.Block) *consensus.Block {
	height := block.Height - 1
	for _, proposal := range it.pool.Validated().BlockProposal().GetByHeight(height) {
		if proposal.BlockHash == block.ParentHash {
			return proposal.Block
		}
	}

	// the proposal may have been purged while the catch-up package built on it remains
	if it.cup == nil {
		cup, err := it.pool.Validated().CatchUpPackage().GetOnlyByHeight(height)
		if err != nil {
			return nil
		}
		it.cup = cup
	}
	if it.cup.Height() == height && it.cup.Content.Block.ComputeHash() == block.ParentHash {
		return it.cup.Content.Block
	}
	return nil
}
