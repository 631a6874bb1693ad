package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/utils/unittest"
)

func TestBlockChain_EcdsaPayload(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	fixture.AdvanceRoundNormalOperationN(4)

	proposal := fixture.MakeNextBlock()
	proposal.Block.Payload.Ecdsa = &consensus.EcdsaPayload{
		KeyID:        "secp256k1:master",
		NextUnusedID: 7,
	}
	proposal = consensus.NewBlockProposal(proposal.Block, fixture.Signer)
	fixture.Insert(proposal, fixture.Finalize(proposal))

	summary := fixture.FinalizedProposal(4).Block
	chain := NewBlockChain(fixture.Pool, summary, proposal.Block)
	require.Equal(t, []consensus.Height{4, 5}, chain.Heights())

	payload, err := chain.EcdsaPayload(5)
	require.NoError(t, err)
	assert.Equal(t, "secp256k1:master", payload.KeyID)
	assert.Equal(t, uint64(7), payload.NextUnusedID)

	_, err = chain.EcdsaPayload(4)
	assert.True(t, IsPayloadNotFoundError(err))
	assert.False(t, IsBlockNotFoundError(err))

	for _, height := range []consensus.Height{0, 3, 6} {
		_, err = chain.EcdsaPayload(height)
		assert.True(t, IsBlockNotFoundError(err), "height %d", height)
		_, err = chain.BlockAt(height)
		assert.True(t, IsBlockNotFoundError(err), "height %d", height)
	}

	block, err := chain.BlockAt(5)
	require.NoError(t, err)
	assert.Equal(t, proposal.BlockHash, block.ComputeHash())
}

func TestBlockChain_Update(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	fixture.AdvanceRoundNormalOperationN(5)
	summary := fixture.FinalizedProposal(4).Block

	chain := NewBlockChain(fixture.Pool, summary, fixture.FinalizedProposal(4).Block)
	require.Equal(t, 1, chain.Len())

	// the tip advanced, only the new blocks are appended
	extended := chain.update(fixture.Pool, summary, fixture.Tip().Block)
	assert.Equal(t, []consensus.Height{4, 5}, extended.Heights())
	assert.Equal(t, []consensus.Height{4}, chain.Heights())

	// the tip is unchanged
	assert.Same(t, extended, extended.update(fixture.Pool, summary, fixture.Tip().Block))

	// a new summary rebuilds the chain
	fixture.AdvanceRoundNormalOperationN(4)
	next := fixture.FinalizedProposal(8).Block
	rebuilt := extended.update(fixture.Pool, next, fixture.Tip().Block)
	assert.Equal(t, []consensus.Height{8, 9}, rebuilt.Heights())
	assert.Equal(t, consensus.Height(8), rebuilt.SummaryHeight())
}

func TestBlockChain_Panics(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	fixture.AdvanceRoundNormalOperationN(6)
	summary := fixture.FinalizedProposal(4).Block
	tip := fixture.Tip().Block

	t.Run("summary above tip", func(t *testing.T) {
		unittest.RequirePanicsWithSubstring(t, "summary block height 4 is above tip height 2", func() {
			NewBlockChain(fixture.Pool, summary, fixture.FinalizedProposal(2).Block)
		})
	})

	chain := NewBlockChain(fixture.Pool, summary, tip)

	t.Run("tip regression", func(t *testing.T) {
		unittest.RequirePanicsWithSubstring(t, "finalized tip regressed from height 6 to 5", func() {
			chain.update(fixture.Pool, summary, fixture.FinalizedProposal(5).Block)
		})
	})

	t.Run("start above tip", func(t *testing.T) {
		unittest.RequirePanicsWithSubstring(t, "start height 4 above tip height 3", func() {
			chain.update(fixture.Pool, summary, fixture.FinalizedProposal(3).Block)
		})
	})

	t.Run("missing ancestor", func(t *testing.T) {
		require.NoError(t, fixture.Pool.Remove(fixture.FinalizedProposal(5)))
		unittest.RequirePanicsWithSubstring(t, "could not find ancestors of block at height 6", func() {
			NewBlockChain(fixture.Pool, summary, tip)
		})
	})
}
