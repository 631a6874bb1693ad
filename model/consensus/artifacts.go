package consensus

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/replicanet/replica/model/encoding/cbor"
	"github.com/replicanet/replica/model/network"
)

// BlockProposal is a signed block together with its hash.
type BlockProposal struct {
	Block     *Block
	BlockHash Hash
	Signer    network.NodeID
	Signature []byte
}

// NewBlockProposal wraps the block into a proposal, computing its hash.
func NewBlockProposal(block *Block, signer network.NodeID) *BlockProposal {
	return &BlockProposal{
		Block:     block,
		BlockHash: block.ComputeHash(),
		Signer:    signer,
	}
}

func (p *BlockProposal) Height() Height {
	return p.Block.Height
}

// Notarization certifies that a block at a height is valid and may be built upon.
type Notarization struct {
	Content   NotarizationContent
	Signers   []network.NodeID
	Signature []byte
}

type NotarizationContent struct {
	Height    Height
	BlockHash Hash
}

func (n *Notarization) Height() Height {
	return n.Content.Height
}

// Finalization asserts irrevocable agreement on the block with BlockHash at Height.
type Finalization struct {
	Content   FinalizationContent
	Signers   []network.NodeID
	Signature []byte
}

type FinalizationContent struct {
	Height    Height
	BlockHash Hash
}

// NewFinalization returns an unsigned finalization of the given proposal.
func NewFinalization(proposal *BlockProposal) *Finalization {
	return &Finalization{
		Content: FinalizationContent{
			Height:    proposal.Height(),
			BlockHash: proposal.BlockHash,
		},
	}
}

func (f *Finalization) Height() Height {
	return f.Content.Height
}

// RandomBeacon is the threshold signature chained through all heights.
type RandomBeacon struct {
	Height    Height
	Parent    Hash
	Signature []byte
}

// CatchUpContent is the part of a CatchUpPackage covered by the threshold signature.
type CatchUpContent struct {
	Block                      *Block
	RandomBeacon               RandomBeacon
	StateHash                  []byte
	OldestRegistryVersionInUse uint64
}

// CatchUpPackage is a signed checkpoint binding a summary block to the state hash at its height.
type CatchUpPackage struct {
	Content   CatchUpContent
	Signature []byte
}

func (c *CatchUpPackage) Height() Height {
	return c.Content.Block.Height
}

// Copy returns a copy sharing no mutable state with c.
func (c *CatchUpPackage) Copy() *CatchUpPackage {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Content.Block = c.Content.Block.Copy()
	cp.Content.RandomBeacon.Signature = slices.Clone(c.Content.RandomBeacon.Signature)
	cp.Content.StateHash = slices.Clone(c.Content.StateHash)
	cp.Signature = slices.Clone(c.Signature)
	return &cp
}

// Encode returns the raw form of the package, as stored in the pool and sent over the wire.
func (c *CatchUpPackage) Encode() (*CatchUpPackageRaw, error) {
	content, err := cbor.EncMode.Marshal(&c.Content)
	if err != nil {
		return nil, fmt.Errorf("could not encode catch-up package content: %w", err)
	}
	return &CatchUpPackageRaw{
		Content:   content,
		Signature: c.Signature,
	}, nil
}

// CatchUpPackageRaw is the encoded form of a CatchUpPackage. The signature covers the
// encoded content bytes, so the raw form is what peers verify and what is handed out to
// joining replicas.
type CatchUpPackageRaw struct {
	Content   []byte
	Signature []byte
}

func (r *CatchUpPackageRaw) Copy() *CatchUpPackageRaw {
	if r == nil {
		return nil
	}
	return &CatchUpPackageRaw{
		Content:   slices.Clone(r.Content),
		Signature: slices.Clone(r.Signature),
	}
}

// DecodeCatchUpPackage decodes the raw form of a catch-up package.
func DecodeCatchUpPackage(raw *CatchUpPackageRaw) (*CatchUpPackage, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil catch-up package")
	}
	var content CatchUpContent
	err := cbor.Unmarshal(raw.Content, &content)
	if err != nil {
		return nil, fmt.Errorf("could not decode catch-up package content: %w", err)
	}
	if content.Block == nil {
		return nil, fmt.Errorf("catch-up package content has no block")
	}
	return &CatchUpPackage{
		Content:   content,
		Signature: raw.Signature,
	}, nil
}
