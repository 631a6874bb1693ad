package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replicanet/replica/consensus/pool"
	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/utils/unittest"
)

func collect(it *pool.ChainIterator) []consensus.Height {
	var heights []consensus.Height
	for {
		block, ok := it.Next()
		if !ok {
			return heights
		}
		heights = append(heights, block.Height)
	}
}

// walking from the tip reaches genesis through the catch-up package block
func TestChainIterator_ToGenesis(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	fixture.AdvanceRoundNormalOperationN(5)

	it := pool.NewChainIterator(fixture.Pool, fixture.Tip().Block, nil)
	assert.Equal(t, []consensus.Height{5, 4, 3, 2, 1, 0}, collect(it))
}

func TestChainIterator_StopHeight(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	fixture.AdvanceRoundNormalOperationN(6)

	stop := consensus.Height(4)
	it := pool.NewChainIterator(fixture.Pool, fixture.Tip().Block, &stop)
	assert.Equal(t, []consensus.Height{6, 5, 4}, collect(it))

	// starting below the stop height yields nothing
	below := fixture.FinalizedProposal(3).Block
	it = pool.NewChainIterator(fixture.Pool, below, &stop)
	assert.Empty(t, collect(it))
}

// the walk ends at the first ancestor missing from the pool
func TestChainIterator_MissingAncestor(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	fixture.AdvanceRoundNormalOperationN(4)
	missing := fixture.FinalizedProposal(2)
	require.NoError(t, fixture.Pool.Remove(missing))

	it := pool.NewChainIterator(fixture.Pool, fixture.Tip().Block, nil)
	assert.Equal(t, []consensus.Height{4, 3}, collect(it))
}

// after purging, the catch-up package block is the root of the chain
func TestChainIterator_CatchUpPackageRoot(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	fixture.AdvanceRoundNormalOperationN(6)
	fixture.Insert(fixture.MakeCatchUpPackage(4))
	fixture.Apply(consensus.ChangeSet{consensus.NewPurgeValidatedBelow(5)})

	it := pool.NewChainIterator(fixture.Pool, fixture.Tip().Block, nil)
	assert.Equal(t, []consensus.Height{6, 5, 4}, collect(it))
}

// the iterator follows parent hashes, not heights
func TestChainIterator_Fork(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	fixture.AdvanceRoundNormalOperationN(2)
	parent := fixture.Tip()

	fixture.SetRegistryVersion(7)
	fork := fixture.MakeNextBlockFrom(parent)
	fixture.Insert(fork)
	fixture.SetRegistryVersion(1)
	canonical := fixture.AdvanceRoundWithoutFinalization()
	require.NotEqual(t, fork.BlockHash, canonical.BlockHash)

	child := fixture.MakeNextBlockFrom(fork)
	fixture.Insert(child)

	it := pool.NewChainIterator(fixture.Pool, child.Block, nil)
	block, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, child.BlockHash, block.ComputeHash())
	block, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, fork.BlockHash, block.ComputeHash())
}
