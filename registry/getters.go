package registry

import (
	"fmt"
	"strings"

	"github.com/replicanet/replica/model/network"
)

// The getters below return nil without error when the record does not exist at the version.
// Callers decide whether an absent record is a fault or has a default.

// GetSubnetIDs returns the ids of all subnets of the network.
func GetSubnetIDs(client Client, version uint64) ([]network.SubnetID, error) {
	record, err := GetOptional[SubnetListRecord](client, SubnetListKey, version)
	if err != nil || record == nil {
		return nil, err
	}
	return record.Subnets, nil
}

func GetSubnetRecord(client Client, subnetID network.SubnetID, version uint64) (*SubnetRecord, error) {
	return GetOptional[SubnetRecord](client, SubnetRecordKey(subnetID), version)
}

func GetCatchUpPackageContents(client Client, subnetID network.SubnetID, version uint64) (*CatchUpPackageContents, error) {
	return GetOptional[CatchUpPackageContents](client, CatchUpPackageContentsKey(subnetID), version)
}

// GetRootSubnetID returns the id of the subnet governing the network.
func GetRootSubnetID(client Client, version uint64) (*network.SubnetID, error) {
	record, err := GetOptional[RootSubnetIDRecord](client, RootSubnetIDKey, version)
	if err != nil || record == nil {
		return nil, err
	}
	return &record.SubnetID, nil
}

func GetProvisionalWhitelist(client Client, version uint64) (*network.ProvisionalWhitelist, error) {
	record, err := GetOptional[ProvisionalWhitelistRecord](client, ProvisionalWhitelistKey, version)
	if err != nil || record == nil {
		return nil, err
	}
	return &network.ProvisionalWhitelist{
		All:        record.All,
		Principals: record.Principals,
	}, nil
}

func GetRoutingTable(client Client, version uint64) (*network.RoutingTable, error) {
	record, err := GetOptional[RoutingTableRecord](client, RoutingTableKey, version)
	if err != nil || record == nil {
		return nil, err
	}
	return &network.RoutingTable{Entries: record.Entries}, nil
}

func GetCanisterMigrations(client Client, version uint64) (*network.CanisterMigrations, error) {
	record, err := GetOptional[CanisterMigrationsRecord](client, CanisterMigrationsKey, version)
	if err != nil || record == nil {
		return nil, err
	}
	return &network.CanisterMigrations{Entries: record.Entries}, nil
}

// GetEcdsaSigningSubnets returns, for every ECDSA key with a signing subnet list, the subnets
// enabled to sign with it. Keys whose list is present but empty are included.
func GetEcdsaSigningSubnets(client Client, version uint64) (map[network.EcdsaKeyID][]network.SubnetID, error) {
	keys, err := client.GetKeysWithPrefix(ecdsaSigningSubnetListKeyPrefix, version)
	if err != nil {
		return nil, fmt.Errorf("could not list ecdsa signing subnet keys: %w", err)
	}

	signingSubnets := make(map[network.EcdsaKeyID][]network.SubnetID, len(keys))
	for _, key := range keys {
		keyID, err := network.ParseEcdsaKeyID(strings.TrimPrefix(key, ecdsaSigningSubnetListKeyPrefix))
		if err != nil {
			return nil, NewDecodeErrorf(key, "invalid key id: %w", err)
		}
		record, err := Get[EcdsaSigningSubnetListRecord](client, key, version)
		if err != nil {
			return nil, err
		}
		signingSubnets[keyID] = record.Subnets
	}
	return signingSubnets, nil
}

// GetNodePublicKey returns the key the node registered for the purpose.
func GetNodePublicKey(client Client, nodeID network.NodeID, purpose KeyPurpose, version uint64) (*PublicKeyRecord, error) {
	return GetOptional[PublicKeyRecord](client, CryptoRecordKey(nodeID, purpose), version)
}
