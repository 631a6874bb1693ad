package network

import (
	"github.com/onflow/flow-go/crypto"
	"golang.org/x/exp/slices"
)

// ProvisionalWhitelist lists the principals allowed to create canisters with cycles out of thin air.
// The zero value denies everybody.
type ProvisionalWhitelist struct {
	All        bool
	Principals []PrincipalID
}

// Allows returns true if the principal is on the whitelist.
func (w *ProvisionalWhitelist) Allows(principal PrincipalID) bool {
	return w.All || slices.Contains(w.Principals, principal)
}

// RegistryExecutionSettings are the execution limits read from the registry for the own subnet.
type RegistryExecutionSettings struct {
	MaxNumberOfCanisters uint64
	ProvisionalWhitelist ProvisionalWhitelist
	MaxEcdsaQueueSize    uint32
	SubnetSize           int
}

// NodePublicKeys holds the validated signing public keys of the own subnet's members.
type NodePublicKeys map[NodeID]crypto.PublicKey
