package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/utils/unittest"
)

func TestResolveSummaryBlock(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	fixture.AdvanceRoundNormalOperationN(6)
	genesis := fixture.GenesisCatchUpPackage().Content.Block

	t.Run("unchanged interval", func(t *testing.T) {
		tip := fixture.FinalizedProposal(3).Block
		assert.Same(t, genesis, resolveSummaryBlock(fixture.Pool, genesis, tip))
	})

	t.Run("finalized summary", func(t *testing.T) {
		summary := resolveSummaryBlock(fixture.Pool, genesis, fixture.Tip().Block)
		assert.Equal(t, consensus.Height(4), summary.Height)
		assert.Equal(t, fixture.FinalizedProposal(4).BlockHash, summary.ComputeHash())
	})

	t.Run("summary found through ancestors", func(t *testing.T) {
		finalization, err := fixture.Pool.Finalization().GetOnlyByHeight(4)
		require.NoError(t, err)
		expected := fixture.FinalizedProposal(4).BlockHash
		require.NoError(t, fixture.Pool.Remove(finalization))
		defer func() { require.NoError(t, fixture.Pool.Insert(finalization)) }()

		summary := resolveSummaryBlock(fixture.Pool, genesis, fixture.Tip().Block)
		assert.Equal(t, expected, summary.ComputeHash())
	})
}

func TestResolveSummaryBlock_Panics(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	fixture.AdvanceRoundNormalOperationN(6)
	summary := fixture.FinalizedProposal(4).Block

	t.Run("start below current summary", func(t *testing.T) {
		unittest.RequirePanicsWithSubstring(t, "is below the current summary height 4", func() {
			resolveSummaryBlock(fixture.Pool, summary, fixture.FinalizedProposal(2).Block)
		})
	})

	t.Run("block at start is not a summary", func(t *testing.T) {
		tip := fixture.MakeNextBlock().Block
		tip.Payload = consensus.NewDataPayload(5)
		unittest.RequirePanicsWithSubstring(t, "block at dkg interval start height 5 has no summary payload", func() {
			resolveSummaryBlock(fixture.Pool, summary, tip)
		})
	})

	t.Run("summary not found", func(t *testing.T) {
		tip := fixture.MakeNextBlock().Block
		tip.Payload = consensus.NewDataPayload(10)
		unittest.RequirePanicsWithSubstring(t, "could not find the summary block at height 10", func() {
			resolveSummaryBlock(fixture.Pool, summary, tip)
		})
	})
}
