package cache

import (
	"fmt"

	"github.com/google/btree"

	"github.com/replicanet/replica/consensus/pool"
	"github.com/replicanet/replica/model/consensus"
)

const chainTreeDegree = 8

func byHeight(a, b *consensus.Block) bool {
	return a.Height < b.Height
}

// BlockChain is the contiguous segment of the finalized chain from the current summary block
// up to the finalized tip, indexed by height. A BlockChain is never mutated once handed out;
// updates produce a new value sharing structure with the old one.
type BlockChain struct {
	blocks        *btree.BTreeG[*consensus.Block]
	summaryHeight consensus.Height
	tipHeight     consensus.Height
}

// NewBlockChain materializes the chain from summary to tip by walking the tip's ancestors in
// the pool. Panics if summary is above tip, or if the pool lacks an ancestor in between.
func NewBlockChain(p pool.ConsensusPool, summary *consensus.Block, tip *consensus.Block) *BlockChain {
	if summary.Height > tip.Height {
		panic(fmt.Sprintf("summary block height %d is above tip height %d", summary.Height, tip.Height))
	}
	chain := &BlockChain{
		blocks:        btree.NewG[*consensus.Block](chainTreeDegree, byHeight),
		summaryHeight: summary.Height,
		tipHeight:     tip.Height,
	}
	chain.fill(p, tip, summary.Height)
	return chain
}

// update returns the chain spanning [summary, tip]. If the summary is unchanged, only the blocks
// above the previous tip are fetched from the pool; otherwise the chain is rebuilt from scratch.
func (c *BlockChain) update(p pool.ConsensusPool, summary *consensus.Block, tip *consensus.Block) *BlockChain {
	start := summary.Height
	if start > tip.Height {
		panic(fmt.Sprintf("chain update with start height %d above tip height %d (previous chain [%d, %d], summary %v, tip %v)",
			start, tip.Height, c.summaryHeight, c.tipHeight, summary.Payload.Summary, tip.Context))
	}

	if start != c.summaryHeight {
		return NewBlockChain(p, summary, tip)
	}

	switch {
	case tip.Height == c.tipHeight:
		return c
	case tip.Height < c.tipHeight:
		panic(fmt.Sprintf("finalized tip regressed from height %d to %d with summary height %d",
			c.tipHeight, tip.Height, start))
	}

	next := &BlockChain{
		blocks:        c.blocks.Clone(),
		summaryHeight: c.summaryHeight,
		tipHeight:     tip.Height,
	}
	next.fill(p, tip, c.tipHeight+1)
	return next
}

// fill inserts the ancestors of tip down to and including the block at height stop.
func (c *BlockChain) fill(p pool.ConsensusPool, tip *consensus.Block, stop consensus.Height) {
	lowest := tip.Height + 1
	it := pool.NewChainIterator(p, tip, &stop)
	for {
		block, ok := it.Next()
		if !ok {
			break
		}
		c.blocks.ReplaceOrInsert(block)
		lowest = block.Height
	}
	if lowest != stop {
		panic(fmt.Sprintf("could not find ancestors of block at height %d down to height %d, lowest found %d",
			tip.Height, stop, lowest))
	}
}

// Tip returns the highest block of the chain.
func (c *BlockChain) Tip() *consensus.Block {
	tip, _ := c.blocks.Max()
	return tip.Copy()
}

// SummaryHeight returns the height of the summary block the chain starts at.
func (c *BlockChain) SummaryHeight() consensus.Height {
	return c.summaryHeight
}

// Len returns the number of blocks in the chain, tip height - summary height + 1.
func (c *BlockChain) Len() int {
	return c.blocks.Len()
}

// BlockAt returns the block at the height.
// Expected errors during normal operations:
//   - BlockNotFoundError if the height is outside of the chain
func (c *BlockChain) BlockAt(height consensus.Height) (*consensus.Block, error) {
	block, ok := c.blocks.Get(&consensus.Block{Height: height})
	if !ok {
		return nil, NewBlockNotFoundError(height)
	}
	return block.Copy(), nil
}

// EcdsaPayload returns the ECDSA payload of the block at the height.
// Expected errors during normal operations:
//   - BlockNotFoundError if the height is outside of the chain
//   - PayloadNotFoundError if the block carries no ECDSA payload
func (c *BlockChain) EcdsaPayload(height consensus.Height) (*consensus.EcdsaPayload, error) {
	block, ok := c.blocks.Get(&consensus.Block{Height: height})
	if !ok {
		return nil, NewBlockNotFoundError(height)
	}
	payload, ok := block.Payload.AsEcdsa()
	if !ok {
		return nil, NewPayloadNotFoundError(height)
	}
	cp := *payload
	return &cp, nil
}

// Heights returns the heights of all blocks in ascending order.
func (c *BlockChain) Heights() []consensus.Height {
	heights := make([]consensus.Height, 0, c.blocks.Len())
	c.blocks.Ascend(func(block *consensus.Block) bool {
		heights = append(heights, block.Height)
		return true
	})
	return heights
}
