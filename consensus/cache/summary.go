package cache

import (
	"fmt"

	"github.com/replicanet/replica/consensus/pool"
	"github.com/replicanet/replica/model/consensus"
)

// resolveSummaryBlock returns the summary block of the DKG interval the finalized tip belongs
// to. The current summary is returned unchanged while the tip stays in its interval. Otherwise
// the summary is looked up as the finalized block at the interval start height, falling back
// to walking the tip's ancestors.
func resolveSummaryBlock(p pool.ConsensusPool, current *consensus.Block, tip *consensus.Block) *consensus.Block {
	start := tip.Payload.DkgIntervalStartHeight()
	switch {
	case start < current.Height:
		panic(fmt.Sprintf("dkg interval start height %d of the finalized tip at height %d is below the current summary height %d",
			start, tip.Height, current.Height))
	case start == current.Height:
		return current
	}

	summary := finalizedBlockAt(p, start)
	if summary == nil {
		summary = ancestorAt(p, tip, start)
	}
	if summary == nil {
		panic(fmt.Sprintf("could not find the summary block at height %d for the finalized tip at height %d",
			start, tip.Height))
	}
	if !summary.Payload.IsSummary() {
		panic(fmt.Sprintf("block at dkg interval start height %d has no summary payload", start))
	}
	return summary
}

// finalizedBlockAt returns the block finalized at the height, nil if the height has no unique
// finalization. Panics if the finalized proposal is missing from the pool.
func finalizedBlockAt(p pool.ConsensusPool, height consensus.Height) *consensus.Block {
	finalization, err := p.Validated().Finalization().GetOnlyByHeight(height)
	if err != nil {
		return nil
	}
	for _, proposal := range p.Validated().BlockProposal().GetByHeight(height) {
		if proposal.BlockHash == finalization.Content.BlockHash {
			return proposal.Block.Copy()
		}
	}
	panic(fmt.Sprintf("no block proposal at height %d matches finalized hash %v", height, finalization.Content.BlockHash))
}

// ancestorAt walks down from tip and returns its ancestor at the height, nil if the pool
// lacks an ancestor on the way.
func ancestorAt(p pool.ConsensusPool, tip *consensus.Block, height consensus.Height) *consensus.Block {
	it := pool.NewChainIterator(p, tip, &height)
	for {
		block, ok := it.Next()
		if !ok {
			return nil
		}
		if block.Height == height {
			return block.Copy()
		}
	}
}
