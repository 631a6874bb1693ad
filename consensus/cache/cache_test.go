package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/replicanet/replica/consensus/pool"
	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/module/metrics"
	"github.com/replicanet/replica/module/mock"
	"github.com/replicanet/replica/utils/unittest"
)

func TestCache(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

type CacheSuite struct {
	suite.Suite

	fixture *unittest.ConsensusPoolFixture
	cache   *Cache
}

func (s *CacheSuite) SetupTest() {
	s.fixture = unittest.NewConsensusPoolFixture(s.T())
	s.cache = New(s.fixture.Pool, unittest.Logger(), metrics.NewNoopCollector())
	s.fixture.Apply = s.apply
}

// apply feeds the change set through the cache the way the consensus pool does
func (s *CacheSuite) apply(changeSet consensus.ChangeSet) {
	actions := s.cache.Prepare(changeSet)
	s.Require().NoError(s.fixture.Pool.Apply(changeSet))
	s.cache.Update(s.fixture.Pool, actions)
}

func (s *CacheSuite) requireChain(from, to consensus.Height) {
	var expected []consensus.Height
	for h := from; h <= to; h++ {
		expected = append(expected, h)
	}
	chain := s.cache.FinalizedChain()
	s.Require().Equal(expected, chain.Heights())
	s.Require().Equal(to, chain.Tip().Height)
	s.Require().Equal(len(expected), chain.Len())
}

func (s *CacheSuite) TestGenesis() {
	s.Equal(consensus.Height(0), s.cache.FinalizedBlock().Height)
	s.Equal(consensus.Height(0), s.cache.SummaryBlock().Height)
	s.Equal(consensus.Height(0), s.cache.CatchUpPackage().Height())
	s.Equal(s.fixture.Pool.HighestCatchUpPackageRaw(), s.cache.CatchUpPackageRaw())

	_, ok := s.cache.ConsensusTime()
	s.False(ok, "genesis has no consensus time")
	s.requireChain(0, 0)
}

// every finalized round moves the finalized block and the consensus time
func (s *CacheSuite) TestNormalOperation() {
	for round := 1; round <= 3; round++ {
		s.fixture.AdvanceTime(time.Duration(round) * time.Second)
		expectedTime := s.fixture.Now()
		height := s.fixture.AdvanceRoundNormalOperation()

		finalized := s.cache.FinalizedBlock()
		s.Equal(height, finalized.Height)
		s.Equal(s.fixture.Tip().BlockHash, finalized.ComputeHash())

		consensusTime, ok := s.cache.ConsensusTime()
		s.Require().True(ok)
		s.True(expectedTime.Equal(consensusTime))

		s.Equal(consensus.Height(0), s.cache.SummaryBlock().Height)
		s.requireChain(0, height)
	}
}

// the summary block follows the DKG interval of the finalized tip
func (s *CacheSuite) TestSummaryAdvances() {
	s.fixture.AdvanceRoundNormalOperationN(3)
	s.Equal(consensus.Height(0), s.cache.SummaryBlock().Height)

	s.fixture.AdvanceRoundNormalOperation()
	summary := s.cache.SummaryBlock()
	s.Equal(consensus.Height(4), summary.Height)
	s.True(summary.Payload.IsSummary())
	s.requireChain(4, 4)

	s.fixture.AdvanceRoundNormalOperationN(2)
	s.requireChain(4, 6)

	s.fixture.AdvanceRoundNormalOperationN(3)
	s.Equal(consensus.Height(8), s.cache.SummaryBlock().Height)
	s.requireChain(8, 9)
}

// several heights finalized in one change set are applied at once
func (s *CacheSuite) TestFinalizationSkipsHeights() {
	var changeSet consensus.ChangeSet
	parent := s.fixture.Tip()
	for i := 0; i < 5; i++ {
		proposal := s.fixture.MakeNextBlockFrom(parent)
		changeSet = append(changeSet, consensus.NewMoveToValidated(proposal))
		parent = proposal
	}
	changeSet = append(changeSet, consensus.NewMoveToValidated(s.fixture.Finalize(parent)))

	s.apply(changeSet)

	s.Equal(consensus.Height(5), s.cache.FinalizedBlock().Height)
	s.Equal(consensus.Height(4), s.cache.SummaryBlock().Height)
	s.requireChain(4, 5)
}

func (s *CacheSuite) TestCatchUpPackage() {
	s.fixture.AdvanceRoundNormalOperationN(6)
	cup := s.fixture.MakeCatchUpPackage(4)
	s.fixture.Insert(cup)

	s.Equal(consensus.Height(4), s.cache.CatchUpPackage().Height())
	s.Equal(s.fixture.Pool.HighestCatchUpPackageRaw(), s.cache.CatchUpPackageRaw())
	s.Equal(consensus.Height(6), s.cache.FinalizedBlock().Height)
	s.Equal(consensus.Height(4), s.cache.SummaryBlock().Height)

	// purging below the package keeps the chain resolvable through the package block
	s.fixture.Apply(consensus.ChangeSet{consensus.NewPurgeValidatedBelow(5)})
	s.fixture.AdvanceRoundNormalOperation()
	s.requireChain(4, 7)
}

// a catch-up package ahead of the finalized block moves the finalized block to its height,
// and later finalizations build on the package block
func (s *CacheSuite) TestCatchUpPackageAheadOfFinalized() {
	peer := unittest.NewConsensusPoolFixture(s.T())
	peer.AdvanceRoundNormalOperationN(9)
	cup := peer.MakeCatchUpPackage(8)

	s.fixture.Insert(cup)
	s.Equal(consensus.Height(8), s.cache.CatchUpPackage().Height())
	s.Equal(consensus.Height(8), s.cache.FinalizedBlock().Height)
	s.Equal(cup.Content.Block.ComputeHash(), s.cache.FinalizedBlock().ComputeHash())
	s.Equal(consensus.Height(8), s.cache.SummaryBlock().Height)
	s.requireChain(8, 8)

	next := peer.FinalizedProposal(9)
	s.fixture.Insert(next, peer.Finalize(next))
	s.Equal(consensus.Height(9), s.cache.FinalizedBlock().Height)
	s.requireChain(8, 9)

	// finalizations at or below the package never move the finalized block back
	old := peer.FinalizedProposal(3)
	s.fixture.Insert(old, peer.Finalize(old))
	s.Equal(consensus.Height(9), s.cache.FinalizedBlock().Height)
}

func (s *CacheSuite) TestPrepare() {
	s.fixture.AdvanceRoundNormalOperationN(2)

	proposal := s.fixture.MakeNextBlock()
	old := s.fixture.FinalizedProposal(2)

	s.Empty(s.cache.Prepare(nil))
	s.Empty(s.cache.Prepare(consensus.ChangeSet{consensus.NewAddToValidated(proposal)}))
	s.Empty(s.cache.Prepare(consensus.ChangeSet{consensus.NewAddToValidated(s.fixture.Finalize(old))}))
	s.Empty(s.cache.Prepare(consensus.ChangeSet{consensus.NewRemoveFromValidated(s.fixture.Finalize(proposal))}))
	s.Empty(s.cache.Prepare(consensus.ChangeSet{consensus.NewAddToValidated(s.fixture.GenesisCatchUpPackage())}))

	actions := s.cache.Prepare(consensus.ChangeSet{
		consensus.NewAddToValidated(s.fixture.Finalize(proposal)),
		consensus.NewMoveToValidated(s.fixture.Finalize(proposal)),
	})
	s.Equal([]UpdateAction{ActionFinalization}, actions)

	s.fixture.AdvanceRoundNormalOperationN(2)
	actions = s.cache.Prepare(consensus.ChangeSet{
		consensus.NewMoveToValidated(s.fixture.Finalize(s.fixture.MakeNextBlock())),
		consensus.NewAddToValidated(s.fixture.MakeCatchUpPackage(4)),
	})
	s.Equal([]UpdateAction{ActionCatchUpPackage, ActionFinalization}, actions)
}

// updating twice with the same actions leaves the cache unchanged
func (s *CacheSuite) TestUpdateIdempotent() {
	s.fixture.AdvanceRoundNormalOperationN(5)
	s.fixture.Insert(s.fixture.MakeCatchUpPackage(4))

	finalized := s.cache.FinalizedBlock()
	summary := s.cache.SummaryBlock()
	cup := s.cache.CatchUpPackage()
	chain := s.cache.FinalizedChain()

	actions := []UpdateAction{ActionCatchUpPackage, ActionFinalization}
	s.cache.Update(s.fixture.Pool, actions)
	s.cache.Update(s.fixture.Pool, actions)

	s.Equal(finalized, s.cache.FinalizedBlock())
	s.Equal(summary, s.cache.SummaryBlock())
	s.Equal(cup.Height(), s.cache.CatchUpPackage().Height())
	s.Equal(chain.Heights(), s.cache.FinalizedChain().Heights())
	// an unchanged chain is not rebuilt
	s.Same(chain, s.cache.FinalizedChain())
}

// a chain handed out is a snapshot unaffected by later updates
func (s *CacheSuite) TestFinalizedChainSnapshot() {
	s.fixture.AdvanceRoundNormalOperationN(5)
	snapshot := s.cache.FinalizedChain()

	s.fixture.AdvanceRoundNormalOperationN(2)
	s.Equal([]consensus.Height{4, 5}, snapshot.Heights())
	s.requireChain(4, 7)
}

// values handed out by the cache can be modified without affecting the cache or the pool
func (s *CacheSuite) TestReturnedValuesAreCopies() {
	s.fixture.AdvanceRoundNormalOperationN(9)
	s.fixture.Insert(s.fixture.MakeCatchUpPackage(8))
	s.Require().Equal(consensus.Height(8), s.cache.CatchUpPackage().Height())

	cup := s.cache.CatchUpPackage()
	cup.Content.Block.Height = 100
	cup.Content.StateHash = append(cup.Content.StateHash[:0], 0xff)
	s.Equal(consensus.Height(8), s.cache.CatchUpPackage().Height())

	raw := s.cache.CatchUpPackageRaw()
	s.Require().NotEmpty(raw.Content)
	raw.Content[0] ^= 0xff
	raw.Content = raw.Content[:1]
	decoded, err := consensus.DecodeCatchUpPackage(s.fixture.Pool.HighestCatchUpPackageRaw())
	s.Require().NoError(err)
	s.Equal(consensus.Height(8), decoded.Height())
	s.Equal(s.fixture.Pool.HighestCatchUpPackageRaw(), s.cache.CatchUpPackageRaw())

	finalized := s.cache.FinalizedBlock()
	finalized.Height = 100
	s.Equal(consensus.Height(9), s.cache.FinalizedBlock().Height)
	summary := s.cache.SummaryBlock()
	summary.Height = 100
	s.Equal(consensus.Height(8), s.cache.SummaryBlock().Height)
}

func (s *CacheSuite) TestIsReplicaBehind() {
	s.False(s.cache.IsReplicaBehind(0))

	s.fixture.SetCertifiedHeight(30)
	s.fixture.AdvanceRoundNormalOperation()

	s.True(s.cache.IsReplicaBehind(0))
	s.True(s.cache.IsReplicaBehind(9))
	s.False(s.cache.IsReplicaBehind(10))
	s.False(s.cache.IsReplicaBehind(30))
	s.False(s.cache.IsReplicaBehind(40))
}

// a finalization whose proposal is not in the pool violates the pool's invariants
func (s *CacheSuite) TestFinalizationWithoutProposalPanics() {
	proposal := s.fixture.MakeNextBlock()
	finalization := s.fixture.Finalize(proposal)
	changeSet := consensus.ChangeSet{consensus.NewAddToValidated(finalization)}

	actions := s.cache.Prepare(changeSet)
	s.Require().NoError(s.fixture.Pool.Apply(changeSet))
	unittest.RequirePanicsWithSubstring(s.T(), "no block proposal at height 1", func() {
		s.cache.Update(s.fixture.Pool, actions)
	})
}

func (s *CacheSuite) TestCorruptedCatchUpPackagePanics() {
	corrupted := &corruptedPool{ConsensusPool: s.fixture.Pool}
	unittest.RequirePanicsWithSubstring(s.T(), "could not decode highest catch-up package", func() {
		s.cache.Update(corrupted, []UpdateAction{ActionCatchUpPackage})
	})
	unittest.RequirePanicsWithSubstring(s.T(), "could not decode highest catch-up package", func() {
		New(corrupted, unittest.Logger(), metrics.NewNoopCollector())
	})
}

// the cache reports its heights and counts chain rebuilds
func TestCache_Metrics(t *testing.T) {
	fixture := unittest.NewConsensusPoolFixture(t)
	collector := mock.NewConsensusCacheMetrics(t)
	collector.On("FinalizedHeight", uint64(0)).Once()
	collector.On("CatchUpPackageHeight", uint64(0)).Once()
	collector.On("SummaryHeight", uint64(0)).Once()
	collector.On("FinalizedChainLength", 1).Once()
	c := New(fixture.Pool, unittest.Logger(), collector)

	fixture.Apply = func(changeSet consensus.ChangeSet) {
		actions := c.Prepare(changeSet)
		require.NoError(t, fixture.Pool.Apply(changeSet))
		c.Update(fixture.Pool, actions)
	}

	collector.On("FinalizedHeight", uint64(4)).Once()
	collector.On("CatchUpPackageHeight", uint64(0)).Once()
	collector.On("SummaryHeight", uint64(4)).Once()
	collector.On("FinalizedChainLength", 1).Once()
	collector.On("FinalizedChainRebuilt").Once()

	proposals := make([]*consensus.BlockProposal, 0, 4)
	parent := fixture.Tip()
	for i := 0; i < 4; i++ {
		parent = fixture.MakeNextBlockFrom(parent)
		proposals = append(proposals, parent)
	}
	changeSet := consensus.ChangeSet{}
	for _, proposal := range proposals {
		changeSet = append(changeSet, consensus.NewAddToValidated(proposal))
	}
	changeSet = append(changeSet, consensus.NewAddToValidated(fixture.Finalize(parent)))
	fixture.Apply(changeSet)
}

// the cache invariants hold for any interleaving of finalized rounds and catch-up packages
func TestCache_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fixture := unittest.NewConsensusPoolFixture(rt)
		c := New(fixture.Pool, unittest.Logger(), metrics.NewNoopCollector())
		fixture.Apply = func(changeSet consensus.ChangeSet) {
			actions := c.Prepare(changeSet)
			require.NoError(rt, fixture.Pool.Apply(changeSet))
			c.Update(fixture.Pool, actions)
		}

		var lastFinalized, lastSummary, lastCUP consensus.Height
		steps := rapid.IntRange(1, 12).Draw(rt, "steps")
		for step := 0; step < steps; step++ {
			switch rapid.IntRange(0, 2).Draw(rt, fmt.Sprintf("action_%d", step)) {
			case 0:
				fixture.AdvanceRoundNormalOperationN(rapid.IntRange(1, 6).Draw(rt, fmt.Sprintf("rounds_%d", step)))
			case 1:
				// certify the latest summary block
				summary := c.SummaryBlock().Height
				_, err := fixture.Pool.Finalization().GetOnlyByHeight(summary)
				if err == nil && summary > c.CatchUpPackage().Height() {
					fixture.Insert(fixture.MakeCatchUpPackage(summary))
				}
			case 2:
				fixture.AdvanceRoundWithoutFinalization()
			}

			finalized := c.FinalizedBlock()
			summary := c.SummaryBlock()
			cup := c.CatchUpPackage()
			chain := c.FinalizedChain()

			require.LessOrEqual(rt, summary.Height, finalized.Height)
			require.LessOrEqual(rt, cup.Height(), finalized.Height)
			require.GreaterOrEqual(rt, finalized.Height, lastFinalized)
			require.GreaterOrEqual(rt, summary.Height, lastSummary)
			require.GreaterOrEqual(rt, cup.Height(), lastCUP)
			require.True(rt, summary.Payload.IsSummary())
			require.Equal(rt, finalized.Payload.DkgIntervalStartHeight(), summary.Height)

			heights := chain.Heights()
			require.Len(rt, heights, int(finalized.Height-summary.Height)+1)
			for i, h := range heights {
				require.Equal(rt, summary.Height+consensus.Height(i), h)
			}
			require.Equal(rt, finalized.ComputeHash(), chain.Tip().ComputeHash())

			lastFinalized, lastSummary, lastCUP = finalized.Height, summary.Height, cup.Height()
		}
	})
}

type corruptedPool struct {
	pool.ConsensusPool
}

func (p *corruptedPool) Validated() pool.ValidatedPool {
	return &corruptedValidatedPool{ValidatedPool: p.ConsensusPool.Validated()}
}

type corruptedValidatedPool struct {
	pool.ValidatedPool
}

func (p *corruptedValidatedPool) HighestCatchUpPackageRaw() *consensus.CatchUpPackageRaw {
	return &consensus.CatchUpPackageRaw{Content: []byte{0xff, 0x00, 0x13}}
}
