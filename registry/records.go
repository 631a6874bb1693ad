package registry

import (
	"github.com/replicanet/replica/model/network"
)

// SubnetListRecord lists all subnets of the network.
type SubnetListRecord struct {
	Subnets []network.SubnetID
}

// SubnetRecord describes one subnet.
type SubnetRecord struct {
	Membership           []network.NodeID
	SubnetType           network.SubnetType
	Features             network.SubnetFeatures
	MaxNumberOfCanisters uint64
	DkgIntervalLength    uint64
	EcdsaConfig          *network.EcdsaConfig `cbor:",omitempty"`
}

// NiDkgTranscript is the public part of a non-interactive DKG transcript.
type NiDkgTranscript struct {
	Threshold       uint32
	Committee       []network.NodeID
	RegistryVersion uint64
	PublicKey       []byte
}

// CatchUpPackageContents holds the initial DKG transcripts of a subnet.
type CatchUpPackageContents struct {
	InitialNiDkgTranscriptLowThreshold  *NiDkgTranscript `cbor:",omitempty"`
	InitialNiDkgTranscriptHighThreshold *NiDkgTranscript `cbor:",omitempty"`
}

// RootSubnetIDRecord names the subnet governing the network.
type RootSubnetIDRecord struct {
	SubnetID network.SubnetID
}

// ProvisionalWhitelistRecord lists the principals allowed to use provisional cycles.
type ProvisionalWhitelistRecord struct {
	All        bool
	Principals []network.PrincipalID
}

// RoutingTableRecord assigns canister ranges to subnets.
type RoutingTableRecord struct {
	Entries []network.RoutingTableEntry
}

// CanisterMigrationsRecord lists canister ranges being migrated between subnets.
type CanisterMigrationsRecord struct {
	Entries []network.MigrationEntry
}

// EcdsaSigningSubnetListRecord lists the subnets enabled to sign with one ECDSA key.
type EcdsaSigningSubnetListRecord struct {
	Subnets []network.SubnetID
}

// PublicKeyRecord is a public key a node registered for one purpose.
type PublicKeyRecord struct {
	Algorithm string
	KeyValue  []byte
}
