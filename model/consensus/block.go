package consensus

import (
	"fmt"
	"time"

	"github.com/onflow/flow-go/crypto/hash"

	"github.com/replicanet/replica/model/encoding/cbor"
)

// ValidationContext is the context a block was proposed in.
type ValidationContext struct {
	// RegistryVersion is the registry version the block's payload was validated against.
	RegistryVersion uint64
	// CertifiedHeight is the latest height whose state the proposer saw certified.
	CertifiedHeight Height
	// Time is the proposer's estimate of the wall-clock time.
	Time time.Time
}

// Block is a node of the agreed chain. Blocks are immutable once finalized; the cache only ever
// hands out copies.
type Block struct {
	Version    string
	ParentHash Hash
	Payload    Payload
	Height     Height
	Rank       uint64
	Context    ValidationContext
}

// ComputeHash returns the SHA3-256 digest of the block's canonical CBOR encoding.
func (b *Block) ComputeHash() Hash {
	encoded, err := cbor.EncMode.Marshal(b)
	if err != nil {
		// all block fields are plain data, encoding can only fail on a programming error
		panic(fmt.Sprintf("could not encode block at height %d: %v", b.Height, err))
	}
	var h Hash
	copy(h[:], hash.NewSHA3_256().ComputeHash(encoded))
	return h
}

// Copy returns a deep copy of the block. Payload slices are shared since they are never mutated.
func (b *Block) Copy() *Block {
	if b == nil {
		return nil
	}
	cp := *b
	cp.Payload = b.Payload.copy()
	return &cp
}
