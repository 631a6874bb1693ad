package registry

import (
	"fmt"

	"github.com/replicanet/replica/model/network"
)

// Keys of the records message routing reads. Per-entity keys are built by the functions below.
const (
	SubnetListKey           = "subnet_list"
	RootSubnetIDKey         = "nns_subnet_id"
	ProvisionalWhitelistKey = "provisional_whitelist"
	RoutingTableKey         = "routing_table"
	CanisterMigrationsKey   = "canister_migrations"

	subnetRecordKeyPrefix           = "subnet_record_"
	catchUpPackageContentsKeyPrefix = "catch_up_package_contents_"
	ecdsaSigningSubnetListKeyPrefix = "key_id_"
	cryptoRecordKeyPrefix           = "crypto_record_"
)

// KeyPurpose selects one of the keys a node registers.
type KeyPurpose int

const (
	KeyPurposeNodeSigning KeyPurpose = iota + 1
	KeyPurposeCommitteeSigning
	KeyPurposeDkgDealingEncryption
	KeyPurposeIDkgMEGaEncryption
)

func SubnetRecordKey(subnetID network.SubnetID) string {
	return subnetRecordKeyPrefix + subnetID.String()
}

func CatchUpPackageContentsKey(subnetID network.SubnetID) string {
	return catchUpPackageContentsKeyPrefix + subnetID.String()
}

func EcdsaSigningSubnetListKey(keyID network.EcdsaKeyID) string {
	return ecdsaSigningSubnetListKeyPrefix + keyID.String()
}

func CryptoRecordKey(nodeID network.NodeID, purpose KeyPurpose) string {
	return fmt.Sprintf("%s%s_%d", cryptoRecordKeyPrefix, nodeID.String(), purpose)
}
