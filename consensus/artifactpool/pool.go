package artifactpool

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/replicanet/replica/consensus/cache"
	"github.com/replicanet/replica/consensus/pool"
	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/module"
)

// Pool is the consensus artifact pool: the validated artifacts together with the cache derived
// from them. Change sets are applied one at a time; readers of the cache never observe a pool
// state the cache has not caught up with for longer than one ApplyChanges call.
type Pool struct {
	log       zerolog.Logger
	mu        sync.Mutex
	validated *pool.InMemory
	cache     *cache.Cache
}

var _ pool.ConsensusPool = (*Pool)(nil)

// New creates a pool holding only the genesis catch-up package.
// No errors are expected during normal operations.
func New(log zerolog.Logger, genesis *consensus.CatchUpPackage, metrics module.ConsensusCacheMetrics) (*Pool, error) {
	validated, err := pool.NewInMemory(log, genesis)
	if err != nil {
		return nil, fmt.Errorf("could not create validated pool: %w", err)
	}
	return &Pool{
		log:       log.With().Str("component", "artifact_pool").Logger(),
		validated: validated,
		cache:     cache.New(validated, log, metrics),
	}, nil
}

func (p *Pool) Validated() pool.ValidatedPool {
	return p.validated
}

// Cache returns the consensus cache kept in sync with the pool.
func (p *Pool) Cache() *cache.Cache {
	return p.cache
}

// ApplyChanges applies the change set to the validated pool and updates the cache.
// No errors are expected during normal operations.
func (p *Pool) ApplyChanges(changeSet consensus.ChangeSet) error {
	if len(changeSet) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	actions := p.cache.Prepare(changeSet)
	err := p.validated.Apply(changeSet)
	// changes before a failing one are applied, so the cache is updated in either case
	p.cache.Update(p.validated, actions)
	if err != nil {
		return fmt.Errorf("could not apply change set: %w", err)
	}

	p.log.Debug().
		Int("changes", len(changeSet)).
		Int("cache_actions", len(actions)).
		Msg("change set applied")
	return nil
}
