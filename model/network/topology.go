package network

import (
	"golang.org/x/exp/slices"
)

// Topology is the view of the whole network a replica executes against. It is
// reconstructed from the registry for every batch.
type Topology struct {
	Subnets             map[SubnetID]*SubnetTopology
	RoutingTable        *RoutingTable
	CanisterMigrations  *CanisterMigrations
	NNSSubnetID         SubnetID
	EcdsaSigningSubnets map[EcdsaKeyID][]SubnetID
}

// SubnetTopology describes one subnet: its threshold public key, its members and its features.
type SubnetTopology struct {
	PublicKey      []byte
	Nodes          []NodeID
	SubnetType     SubnetType
	SubnetFeatures SubnetFeatures
	EcdsaKeysHeld  []EcdsaKeyID
}

// Contains returns true if the node is a member of the subnet.
func (s *SubnetTopology) Contains(nodeID NodeID) bool {
	return slices.Contains(s.Nodes, nodeID)
}

// CanisterIDRange is an inclusive range of canister ids.
type CanisterIDRange struct {
	Start CanisterID
	End   CanisterID
}

func (r CanisterIDRange) Contains(id CanisterID) bool {
	return r.Start <= id && id <= r.End
}

// RoutingTableEntry assigns a canister range to a subnet.
type RoutingTableEntry struct {
	Range  CanisterIDRange
	Subnet SubnetID
}

// RoutingTable maps canister ranges to the subnets hosting them. Entries are ordered by range start.
type RoutingTable struct {
	Entries []RoutingTableEntry
}

// NewRoutingTable returns an empty routing table.
func NewRoutingTable() *RoutingTable {
	return &RoutingTable{Entries: []RoutingTableEntry{}}
}

// Route returns the subnet hosting the given canister.
func (t *RoutingTable) Route(id CanisterID) (SubnetID, bool) {
	for _, entry := range t.Entries {
		if entry.Range.Contains(id) {
			return entry.Subnet, true
		}
	}
	return SubnetID{}, false
}

// MigrationEntry records the subnets a canister range passes through while being migrated.
type MigrationEntry struct {
	Range CanisterIDRange
	Trace []SubnetID
}

// CanisterMigrations lists the canister ranges currently being migrated.
type CanisterMigrations struct {
	Entries []MigrationEntry
}

// NewCanisterMigrations returns an empty migration list.
func NewCanisterMigrations() *CanisterMigrations {
	return &CanisterMigrations{Entries: []MigrationEntry{}}
}

// Lookup returns the migration trace of the given canister.
func (m *CanisterMigrations) Lookup(id CanisterID) ([]SubnetID, bool) {
	for _, entry := range m.Entries {
		if entry.Range.Contains(id) {
			return entry.Trace, true
		}
	}
	return nil, false
}
