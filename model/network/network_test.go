package network_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replicanet/replica/model/network"
)

func TestHexStringToIdentifier(t *testing.T) {
	id := network.Identifier{0xab}
	parsed, err := network.HexStringToIdentifier(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = network.HexStringToIdentifier("ab")
	assert.Error(t, err)
	_, err = network.HexStringToIdentifier(id.String() + "00")
	assert.Error(t, err)
	_, err = network.HexStringToIdentifier(strings.Repeat("zz", 32))
	assert.Error(t, err)
}

func TestParseEcdsaKeyID(t *testing.T) {
	keyID := network.EcdsaKeyID{Curve: network.EcdsaCurveSecp256k1, Name: "key 1"}
	parsed, err := network.ParseEcdsaKeyID(keyID.String())
	require.NoError(t, err)
	assert.Equal(t, keyID, parsed)

	for _, malformed := range []string{"", "Secp256k1", "Secp256k1:", "Ed25519:key"} {
		_, err := network.ParseEcdsaKeyID(malformed)
		assert.Error(t, err, malformed)
	}
}

func TestRoutingTable_Route(t *testing.T) {
	a, b := network.SubnetID{0x01}, network.SubnetID{0x02}
	table := &network.RoutingTable{Entries: []network.RoutingTableEntry{
		{Range: network.CanisterIDRange{Start: 0, End: 9}, Subnet: a},
		{Range: network.CanisterIDRange{Start: 10, End: 19}, Subnet: b},
	}}

	subnet, ok := table.Route(9)
	assert.True(t, ok)
	assert.Equal(t, a, subnet)
	subnet, ok = table.Route(10)
	assert.True(t, ok)
	assert.Equal(t, b, subnet)
	_, ok = table.Route(20)
	assert.False(t, ok)
	_, ok = network.NewRoutingTable().Route(0)
	assert.False(t, ok)
}

func TestCanisterMigrations_Lookup(t *testing.T) {
	trace := []network.SubnetID{{0x01}, {0x02}}
	migrations := &network.CanisterMigrations{Entries: []network.MigrationEntry{
		{Range: network.CanisterIDRange{Start: 5, End: 5}, Trace: trace},
	}}
	found, ok := migrations.Lookup(5)
	assert.True(t, ok)
	assert.Equal(t, trace, found)
	_, ok = migrations.Lookup(6)
	assert.False(t, ok)
}

func TestProvisionalWhitelist_Allows(t *testing.T) {
	principal := network.PrincipalID{0x01}
	assert.False(t, (&network.ProvisionalWhitelist{}).Allows(principal))
	assert.True(t, (&network.ProvisionalWhitelist{All: true}).Allows(principal))
	assert.True(t, (&network.ProvisionalWhitelist{Principals: []network.PrincipalID{principal}}).Allows(principal))
}

func TestSubnetTopology_Contains(t *testing.T) {
	node := network.NodeID{0x01}
	subnet := &network.SubnetTopology{Nodes: []network.NodeID{node}}
	assert.True(t, subnet.Contains(node))
	assert.False(t, subnet.Contains(network.NodeID{0x02}))
}
