package network

import (
	"encoding/hex"
	"fmt"
)

// Identifier is a 32-byte principal used to name subnets and nodes.
type Identifier [32]byte

// ZeroID is the lowest value in the 32-byte ID space.
var ZeroID = Identifier{}

func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// HexStringToIdentifier converts a hex string to an identifier. The input
// must be 64 characters long and contain only valid hex characters.
func HexStringToIdentifier(hexString string) (Identifier, error) {
	var identifier Identifier
	if len(hexString) != 2*len(identifier) {
		return identifier, fmt.Errorf("malformed input, expected 64 characters, got %d", len(hexString))
	}
	_, err := hex.Decode(identifier[:], []byte(hexString))
	if err != nil {
		return identifier, err
	}
	return identifier, nil
}

// SubnetID identifies a subnet of the network.
type SubnetID Identifier

func (id SubnetID) String() string {
	return Identifier(id).String()
}

// NodeID identifies a replica node.
type NodeID Identifier

func (id NodeID) String() string {
	return Identifier(id).String()
}

// PrincipalID identifies a user or canister principal.
type PrincipalID Identifier

func (id PrincipalID) String() string {
	return Identifier(id).String()
}

// CanisterID is the numeric id of a canister, used as the key space of the routing table.
type CanisterID uint64
