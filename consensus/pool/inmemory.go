package pool

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/replicanet/replica/model/consensus"
)

// InMemory is the validated section of a consensus pool, kept in memory. It is safe for
// concurrent use. The highest catch-up package is never purged, so the pool always has
// a root to resolve chains against.
type InMemory struct {
	log           zerolog.Logger
	lock          sync.RWMutex
	proposals     *section[*consensus.BlockProposal]
	notarizations *section[*consensus.Notarization]
	finalizations *section[*consensus.Finalization]
	cups          *section[*consensus.CatchUpPackage]
	cupRaw        map[consensus.Height]*consensus.CatchUpPackageRaw
}

var _ ConsensusPool = (*InMemory)(nil)
var _ ValidatedPool = (*InMemory)(nil)

// NewInMemory returns a pool holding only the given genesis catch-up package.
func NewInMemory(log zerolog.Logger, genesis *consensus.CatchUpPackage) (*InMemory, error) {
	p := &InMemory{
		log:    log.With().Str("component", "consensus_pool").Logger(),
		cupRaw: make(map[consensus.Height]*consensus.CatchUpPackageRaw),
	}
	p.proposals = newSection(&p.lock, func(p *consensus.BlockProposal) interface{} { return p.BlockHash })
	p.notarizations = newSection(&p.lock, func(n *consensus.Notarization) interface{} { return n.Content })
	p.finalizations = newSection(&p.lock, func(f *consensus.Finalization) interface{} { return f.Content })
	p.cups = newSection(&p.lock, func(c *consensus.CatchUpPackage) interface{} { return c.Height() })

	p.lock.Lock()
	defer p.lock.Unlock()
	err := p.insert(genesis)
	if err != nil {
		return nil, fmt.Errorf("could not insert genesis catch-up package: %w", err)
	}
	return p, nil
}

func (p *InMemory) Validated() ValidatedPool {
	return p
}

func (p *InMemory) BlockProposal() HeightIndexedPool[*consensus.BlockProposal] {
	return p.proposals
}

func (p *InMemory) Notarization() HeightIndexedPool[*consensus.Notarization] {
	return p.notarizations
}

func (p *InMemory) Finalization() HeightIndexedPool[*consensus.Finalization] {
	return p.finalizations
}

func (p *InMemory) CatchUpPackage() HeightIndexedPool[*consensus.CatchUpPackage] {
	return p.cups
}

func (p *InMemory) HighestCatchUpPackageRaw() *consensus.CatchUpPackageRaw {
	p.lock.RLock()
	defer p.lock.RUnlock()

	height, ok := p.cups.maxHeight()
	if !ok {
		// NewInMemory inserts genesis and purging keeps the highest package
		panic("consensus pool holds no catch-up package")
	}
	return p.cupRaw[height]
}

// Insert adds the artifact to the validated section.
// No errors are expected during normal operations.
func (p *InMemory) Insert(msg consensus.ConsensusMessage) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.insert(msg)
}

// Remove deletes the artifact from the validated section, if present.
func (p *InMemory) Remove(msg consensus.ConsensusMessage) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.remove(msg)
}

// PurgeBelow deletes all validated artifacts below the height, except the highest
// catch-up package.
func (p *InMemory) PurgeBelow(height consensus.Height) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.purgeBelow(height)
}

// Apply applies all changes of the change set atomically with respect to readers.
// No errors are expected during normal operations.
func (p *InMemory) Apply(changeSet consensus.ChangeSet) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	for i, change := range changeSet {
		var err error
		switch change.Kind {
		case consensus.AddToValidated, consensus.MoveToValidated:
			err = p.insert(change.Message)
		case consensus.RemoveFromValidated:
			err = p.remove(change.Message)
		case consensus.PurgeValidatedBelow:
			p.purgeBelow(change.Height)
		default:
			err = fmt.Errorf("unknown change action kind %v", change.Kind)
		}
		if err != nil {
			return fmt.Errorf("could not apply change %d (%v): %w", i, change.Kind, err)
		}
	}
	return nil
}

func (p *InMemory) insert(msg consensus.ConsensusMessage) error {
	switch m := msg.(type) {
	case *consensus.BlockProposal:
		p.proposals.insert(m)
	case *consensus.Notarization:
		p.notarizations.insert(m)
	case *consensus.Finalization:
		p.finalizations.insert(m)
	case *consensus.CatchUpPackage:
		raw, err := m.Encode()
		if err != nil {
			return fmt.Errorf("could not encode catch-up package at height %d: %w", m.Height(), err)
		}
		if p.cups.insert(m) {
			p.cupRaw[m.Height()] = raw
		}
	default:
		return fmt.Errorf("unsupported consensus message type %T", msg)
	}
	return nil
}

func (p *InMemory) remove(msg consensus.ConsensusMessage) error {
	switch m := msg.(type) {
	case *consensus.BlockProposal:
		p.proposals.remove(m)
	case *consensus.Notarization:
		p.notarizations.remove(m)
	case *consensus.Finalization:
		p.finalizations.remove(m)
	case *consensus.CatchUpPackage:
		highest, _ := p.cups.maxHeight()
		if m.Height() == highest {
			return fmt.Errorf("refusing to remove the highest catch-up package at height %d", highest)
		}
		if p.cups.remove(m) {
			delete(p.cupRaw, m.Height())
		}
	default:
		return fmt.Errorf("unsupported consensus message type %T", msg)
	}
	return nil
}

func (p *InMemory) purgeBelow(height consensus.Height) {
	purged := p.proposals.purgeBelow(height)
	purged += p.notarizations.purgeBelow(height)
	purged += p.finalizations.purgeBelow(height)

	highest, _ := p.cups.maxHeight()
	cutoff := height
	if highest < cutoff {
		cutoff = highest
	}
	purged += p.cups.purgeBelow(cutoff)
	for h := range p.cupRaw {
		if h < cutoff {
			delete(p.cupRaw, h)
		}
	}

	p.log.Debug().
		Uint64("height", uint64(height)).
		Int("purged", purged).
		Msg("purged validated artifacts")
}
