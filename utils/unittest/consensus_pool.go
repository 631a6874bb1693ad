package unittest

import (
	"time"

	"github.com/stretchr/testify/require"

	"github.com/replicanet/replica/consensus/pool"
	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/model/network"
)

// DefaultDkgIntervalLength puts summary blocks at heights 0, 4, 8, ...
const DefaultDkgIntervalLength = consensus.Height(3)

// ConsensusPoolFixture drives an in-memory consensus pool through rounds of consensus,
// producing blocks with correct DKG summary placement. All mutations go through Apply,
// which tests may replace to route change sets through the component under test.
type ConsensusPoolFixture struct {
	t              require.TestingT
	Pool           *pool.InMemory
	IntervalLength consensus.Height
	Signer         network.NodeID
	// Apply applies a change set to the pool. Defaults to applying it to Pool directly.
	Apply func(consensus.ChangeSet)

	genesis         *consensus.CatchUpPackage
	tip             *consensus.BlockProposal
	certifiedHeight consensus.Height
	registryVersion uint64
	now             time.Time
}

// NewConsensusPoolFixture returns a fixture whose pool holds only the genesis catch-up package.
func NewConsensusPoolFixture(t require.TestingT) *ConsensusPoolFixture {
	now := time.Unix(1_600_000_000, 0).UTC()
	genesisBlock := &consensus.Block{
		Version:    "0.1.0",
		ParentHash: consensus.ZeroHash,
		Payload:    consensus.NewSummaryPayload(0, DefaultDkgIntervalLength, 1),
		Height:     0,
		Context: consensus.ValidationContext{
			RegistryVersion: 1,
			Time:            now,
		},
	}
	genesis := &consensus.CatchUpPackage{
		Content: consensus.CatchUpContent{
			Block:        genesisBlock,
			RandomBeacon: consensus.RandomBeacon{Height: 0},
		},
	}
	p, err := pool.NewInMemory(Logger(), genesis)
	require.NoError(t, err)

	f := &ConsensusPoolFixture{
		t:               t,
		Pool:            p,
		IntervalLength:  DefaultDkgIntervalLength,
		Signer:          NodeIDFixture(),
		genesis:         genesis,
		tip:             consensus.NewBlockProposal(genesisBlock, network.NodeID{}),
		registryVersion: 1,
		now:             now,
	}
	f.Apply = func(changeSet consensus.ChangeSet) {
		require.NoError(t, p.Apply(changeSet))
	}
	return f
}

// GenesisCatchUpPackage returns the catch-up package the pool was created with.
func (f *ConsensusPoolFixture) GenesisCatchUpPackage() *consensus.CatchUpPackage {
	return f.genesis
}

// Tip returns the proposal the next block is built on.
func (f *ConsensusPoolFixture) Tip() *consensus.BlockProposal {
	return f.tip
}

// SetCertifiedHeight sets the certified height put into the context of subsequent blocks.
func (f *ConsensusPoolFixture) SetCertifiedHeight(height consensus.Height) {
	f.certifiedHeight = height
}

// SetRegistryVersion sets the registry version put into the context of subsequent blocks.
func (f *ConsensusPoolFixture) SetRegistryVersion(version uint64) {
	f.registryVersion = version
}

// AdvanceTime moves the time put into the context of subsequent blocks.
func (f *ConsensusPoolFixture) AdvanceTime(d time.Duration) {
	f.now = f.now.Add(d)
}

// Now returns the time put into the context of the next block.
func (f *ConsensusPoolFixture) Now() time.Time {
	return f.now
}

// MakeNextBlock returns a proposal for a child of the current tip without inserting it.
func (f *ConsensusPoolFixture) MakeNextBlock() *consensus.BlockProposal {
	return f.MakeNextBlockFrom(f.tip)
}

// MakeNextBlockFrom returns a proposal for a child of the given parent without inserting it.
// The payload is a summary when the child opens a new DKG interval, a data payload otherwise.
func (f *ConsensusPoolFixture) MakeNextBlockFrom(parent *consensus.BlockProposal) *consensus.BlockProposal {
	height := parent.Height() + 1
	start := parent.Block.Payload.DkgIntervalStartHeight()

	var payload consensus.Payload
	if height == start+f.IntervalLength+1 {
		payload = consensus.NewSummaryPayload(height, f.IntervalLength, f.registryVersion)
	} else {
		payload = consensus.NewDataPayload(start)
	}

	block := &consensus.Block{
		Version:    parent.Block.Version,
		ParentHash: parent.BlockHash,
		Payload:    payload,
		Height:     height,
		Context: consensus.ValidationContext{
			RegistryVersion: f.registryVersion,
			CertifiedHeight: f.certifiedHeight,
			Time:            f.now,
		},
	}
	return consensus.NewBlockProposal(block, f.Signer)
}

// Insert adds the messages to the validated pool.
func (f *ConsensusPoolFixture) Insert(msgs ...consensus.ConsensusMessage) {
	changeSet := make(consensus.ChangeSet, 0, len(msgs))
	for _, msg := range msgs {
		changeSet = append(changeSet, consensus.NewAddToValidated(msg))
	}
	f.Apply(changeSet)
}

// Notarize returns a notarization of the proposal.
func (f *ConsensusPoolFixture) Notarize(proposal *consensus.BlockProposal) *consensus.Notarization {
	return &consensus.Notarization{
		Content: consensus.NotarizationContent{
			Height:    proposal.Height(),
			BlockHash: proposal.BlockHash,
		},
		Signers: []network.NodeID{f.Signer},
	}
}

// Finalize returns a finalization of the proposal.
func (f *ConsensusPoolFixture) Finalize(proposal *consensus.BlockProposal) *consensus.Finalization {
	finalization := consensus.NewFinalization(proposal)
	finalization.Signers = []network.NodeID{f.Signer}
	return finalization
}

// AdvanceRoundNormalOperation builds the next block, notarizes and finalizes it in one change
// set and makes it the new tip. Returns the new tip height.
func (f *ConsensusPoolFixture) AdvanceRoundNormalOperation() consensus.Height {
	proposal := f.MakeNextBlock()
	f.Insert(proposal, f.Notarize(proposal), f.Finalize(proposal))
	f.tip = proposal
	return proposal.Height()
}

// AdvanceRoundNormalOperationN advances n rounds of normal operation.
func (f *ConsensusPoolFixture) AdvanceRoundNormalOperationN(n int) consensus.Height {
	height := f.tip.Height()
	for i := 0; i < n; i++ {
		height = f.AdvanceRoundNormalOperation()
	}
	return height
}

// AdvanceRoundWithoutFinalization builds and notarizes the next block without finalizing it.
func (f *ConsensusPoolFixture) AdvanceRoundWithoutFinalization() *consensus.BlockProposal {
	proposal := f.MakeNextBlock()
	f.Insert(proposal, f.Notarize(proposal))
	f.tip = proposal
	return proposal
}

// FinalizedProposal returns the proposal finalized at the height. Fails the test if there is none.
func (f *ConsensusPoolFixture) FinalizedProposal(height consensus.Height) *consensus.BlockProposal {
	finalization, err := f.Pool.Finalization().GetOnlyByHeight(height)
	require.NoError(f.t, err, "no finalization at height %d", height)
	for _, proposal := range f.Pool.BlockProposal().GetByHeight(height) {
		if proposal.BlockHash == finalization.Content.BlockHash {
			return proposal
		}
	}
	require.Fail(f.t, "no proposal matches the finalization", "height %d", height)
	return nil
}

// MakeCatchUpPackage returns a catch-up package for the finalized summary block at the height.
// It is not inserted.
func (f *ConsensusPoolFixture) MakeCatchUpPackage(height consensus.Height) *consensus.CatchUpPackage {
	proposal := f.FinalizedProposal(height)
	require.True(f.t, proposal.Block.Payload.IsSummary(), "block at height %d is not a summary block", height)
	return &consensus.CatchUpPackage{
		Content: consensus.CatchUpContent{
			Block: proposal.Block.Copy(),
			RandomBeacon: consensus.RandomBeacon{
				Height: height,
			},
			StateHash:                  RandomBytes(32),
			OldestRegistryVersionInUse: proposal.Block.Context.RegistryVersion,
		},
		Signature: RandomBytes(48),
	}
}
