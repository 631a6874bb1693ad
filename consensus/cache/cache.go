package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/replicanet/replica/consensus/pool"
	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/module"
	"github.com/replicanet/replica/utils/logging"
)

// HeightConsideredBehind is the number of heights the certified height may lag behind the
// certified height referenced by the finalized block before the replica is considered behind.
const HeightConsideredBehind = consensus.Height(20)

// UpdateAction tells Update which parts of the cache a change set invalidated.
type UpdateAction int

const (
	// ActionFinalization signals a finalization above the cached finalized height.
	ActionFinalization UpdateAction = iota
	// ActionCatchUpPackage signals a catch-up package above the cached one.
	ActionCatchUpPackage
)

func (a UpdateAction) String() string {
	switch a {
	case ActionFinalization:
		return "finalization"
	case ActionCatchUpPackage:
		return "catch_up_package"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

type cachedData struct {
	finalizedBlock    *consensus.Block
	summaryBlock      *consensus.Block
	catchUpPackage    *consensus.CatchUpPackage
	catchUpPackageRaw *consensus.CatchUpPackageRaw
	finalizedChain    *BlockChain
}

// Cache keeps the finalized block, the current DKG summary block, the highest catch-up package
// and the finalized chain between summary and tip, derived from the validated consensus pool.
// Readers are served from the cached values; the cache is brought up to date by calling Prepare
// before and Update after every change set is applied to the pool.
//
// Invariants:
//   - summary height <= finalized height
//   - catch-up package height <= finalized height
//   - none of the heights ever decreases
type Cache struct {
	log     zerolog.Logger
	metrics module.ConsensusCacheMetrics
	mu      sync.RWMutex
	data    cachedData
}

// New builds the cache from the current content of the pool. Panics if the pool's highest
// catch-up package cannot be decoded.
func New(p pool.ConsensusPool, log zerolog.Logger, metrics module.ConsensusCacheMetrics) *Cache {
	raw := p.Validated().HighestCatchUpPackageRaw()
	cup, err := consensus.DecodeCatchUpPackage(raw)
	if err != nil {
		panic(fmt.Sprintf("could not decode highest catch-up package: %v", err))
	}

	finalized := highestFinalizedBlock(p, cup)
	summary := resolveSummaryBlock(p, cup.Content.Block.Copy(), finalized)

	c := &Cache{
		log:     log.With().Str("component", "consensus_cache").Logger(),
		metrics: metrics,
		data: cachedData{
			finalizedBlock:    finalized,
			summaryBlock:      summary,
			catchUpPackage:    cup,
			catchUpPackageRaw: raw,
			finalizedChain:    NewBlockChain(p, summary, finalized),
		},
	}
	c.report()

	c.log.Info().
		Uint64("finalized_height", uint64(finalized.Height)).
		Uint64("summary_height", uint64(summary.Height)).
		Uint64("cup_height", uint64(cup.Height())).
		Msg("consensus cache initialized")
	return c
}

// FinalizedBlock returns the highest finalized block.
func (c *Cache) FinalizedBlock() *consensus.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.finalizedBlock.Copy()
}

// ConsensusTime returns the time in the context of the finalized block. The second return value
// is false while only the genesis block is finalized, since genesis carries no agreed time.
func (c *Cache) ConsensusTime() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.finalizedBlock.Height == 0 {
		return time.Time{}, false
	}
	return c.data.finalizedBlock.Context.Time, true
}

// CatchUpPackage returns a copy of the highest catch-up package.
func (c *Cache) CatchUpPackage() *consensus.CatchUpPackage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.catchUpPackage.Copy()
}

// CatchUpPackageRaw returns a copy of the raw form of the highest catch-up package.
func (c *Cache) CatchUpPackageRaw() *consensus.CatchUpPackageRaw {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.catchUpPackageRaw.Copy()
}

// SummaryBlock returns the summary block of the DKG interval the finalized block belongs to.
func (c *Cache) SummaryBlock() *consensus.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.summaryBlock.Copy()
}

// FinalizedChain returns a snapshot of the chain from the summary block to the finalized block.
// The snapshot is unaffected by later updates.
func (c *Cache) FinalizedChain() *BlockChain {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.finalizedChain
}

// IsReplicaBehind returns true if the finalized block references a certified height more than
// HeightConsideredBehind above the given locally certified height.
func (c *Cache) IsReplicaBehind(certifiedHeight consensus.Height) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.finalizedBlock.Context.CertifiedHeight > certifiedHeight+HeightConsideredBehind
}

// Prepare inspects a change set before it is applied to the pool and returns the actions Update
// has to perform afterwards. Only additions of finalizations and catch-up packages above the
// cached heights require an update.
func (c *Cache) Prepare(changeSet consensus.ChangeSet) []UpdateAction {
	if len(changeSet) == 0 {
		return nil
	}

	c.mu.RLock()
	finalizedHeight := c.data.finalizedBlock.Height
	cupHeight := c.data.catchUpPackage.Height()
	c.mu.RUnlock()

	var finalization, cup bool
	for _, change := range changeSet {
		if change.Kind != consensus.AddToValidated && change.Kind != consensus.MoveToValidated {
			continue
		}
		switch msg := change.Message.(type) {
		case *consensus.Finalization:
			finalization = finalization || msg.Height() > finalizedHeight
		case *consensus.CatchUpPackage:
			cup = cup || msg.Height() > cupHeight
		}
	}

	var actions []UpdateAction
	if cup {
		actions = append(actions, ActionCatchUpPackage)
	}
	if finalization {
		actions = append(actions, ActionFinalization)
	}
	return actions
}

// Update brings the cache up to date with the pool after a change set was applied, performing
// the actions returned by Prepare. Panics if the pool violates an invariant of the cache.
func (c *Cache) Update(p pool.ConsensusPool, actions []UpdateAction) {
	if len(actions) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	updateFinalized := false
	for _, action := range actions {
		switch action {
		case ActionFinalization:
			updateFinalized = true
		case ActionCatchUpPackage:
			c.updateCatchUpPackage(p)
		default:
			panic(fmt.Sprintf("unknown cache update action %v", action))
		}
	}
	if updateFinalized {
		c.data.finalizedBlock = highestFinalizedBlock(p, c.data.catchUpPackage)
	}

	c.data.summaryBlock = resolveSummaryBlock(p, c.data.summaryBlock, c.data.finalizedBlock)

	chain := c.data.finalizedChain
	if chain.SummaryHeight() != c.data.summaryBlock.Height {
		c.metrics.FinalizedChainRebuilt()
		c.log.Debug().
			Uint64("previous_summary_height", uint64(chain.SummaryHeight())).
			Uint64("summary_height", uint64(c.data.summaryBlock.Height)).
			Msg("dkg interval changed, rebuilding finalized chain")
	}
	c.data.finalizedChain = chain.update(p, c.data.summaryBlock, c.data.finalizedBlock)

	c.report()
}

// updateCatchUpPackage replaces the cached catch-up package with the pool's highest one and
// moves the finalized block up to its block if it is ahead. Callers hold the write lock.
func (c *Cache) updateCatchUpPackage(p pool.ConsensusPool) {
	raw := p.Validated().HighestCatchUpPackageRaw()
	cup, err := consensus.DecodeCatchUpPackage(raw)
	if err != nil {
		panic(fmt.Sprintf("could not decode highest catch-up package: %v", err))
	}
	c.data.catchUpPackage = cup
	c.data.catchUpPackageRaw = raw

	if cup.Height() > c.data.finalizedBlock.Height {
		c.log.Info().
			Uint64("cup_height", uint64(cup.Height())).
			Str("cup_block", logging.Hash(cup.Content.Block.ComputeHash())).
			Uint64("finalized_height", uint64(c.data.finalizedBlock.Height)).
			Msg("catch-up package is ahead of the finalized block, moving finalized block to its height")
		c.data.finalizedBlock = cup.Content.Block.Copy()
	}
}

func (c *Cache) report() {
	c.metrics.FinalizedHeight(uint64(c.data.finalizedBlock.Height))
	c.metrics.CatchUpPackageHeight(uint64(c.data.catchUpPackage.Height()))
	c.metrics.SummaryHeight(uint64(c.data.summaryBlock.Height))
	c.metrics.FinalizedChainLength(c.data.finalizedChain.Len())
}

// highestFinalizedBlock returns the block of the highest finalization in the pool. The block of
// the catch-up package takes precedence when the finalization is not above it, since blocks
// below the package may already be purged. Panics if the finalized proposal is not in the pool
// or if several finalizations exist at the highest height.
func highestFinalizedBlock(p pool.ConsensusPool, cup *consensus.CatchUpPackage) *consensus.Block {
	finalization, err := p.Validated().Finalization().GetHighest()
	if errors.Is(err, pool.ErrNotFound) {
		return cup.Content.Block.Copy()
	}
	if err != nil {
		panic(fmt.Sprintf("could not determine the highest finalization: %v", err))
	}
	if finalization.Height() <= cup.Height() {
		return cup.Content.Block.Copy()
	}

	for _, proposal := range p.Validated().BlockProposal().GetByHeight(finalization.Height()) {
		if proposal.BlockHash == finalization.Content.BlockHash {
			return proposal.Block.Copy()
		}
	}
	panic(fmt.Sprintf("no block proposal at height %d matches finalized hash %v",
		finalization.Height(), finalization.Content.BlockHash))
}
