package unittest

import (
	"time"

	"github.com/onflow/flow-go/crypto"
	"github.com/stretchr/testify/require"

	"github.com/replicanet/replica/model/network"
	"github.com/replicanet/replica/registry"
)

// CorruptedRecord is a value no registry record decodes from.
var CorruptedRecord = []byte{2, 3, 5, 7, 11, 13, 17, 19}

// RegistryFixture is an in-memory registry. Every write creates a new registry version and
// brings the client up to date with it.
type RegistryFixture struct {
	t        require.TestingT
	Provider *registry.MemoryDataProvider
	Client   *registry.LocalClient
	version  uint64
}

func NewRegistryFixture(t require.TestingT) *RegistryFixture {
	provider := registry.NewMemoryDataProvider()
	return &RegistryFixture{
		t:        t,
		Provider: provider,
		Client:   registry.NewLocalClient(Logger(), provider, 10*time.Millisecond),
	}
}

// Version returns the latest version written.
func (f *RegistryFixture) Version() uint64 {
	return f.version
}

// Write writes the records at a new version and returns it. A record given as []byte is written
// as is, a nil record deletes the key, anything else is encoded.
func (f *RegistryFixture) Write(records map[string]interface{}) uint64 {
	f.version++
	for key, record := range records {
		switch value := record.(type) {
		case nil:
			f.Provider.Add(key, f.version, nil)
		case []byte:
			f.Provider.Add(key, f.version, value)
		default:
			require.NoError(f.t, f.Provider.AddRecord(key, f.version, value))
		}
	}
	require.NoError(f.t, f.Client.UpdateToLatestVersion())
	return f.version
}

// NiDkgTranscriptFixture returns a high threshold transcript with a random public key.
func NiDkgTranscriptFixture(committee ...network.NodeID) *registry.NiDkgTranscript {
	return &registry.NiDkgTranscript{
		Threshold:       uint32(len(committee)/3 + 1),
		Committee:       committee,
		RegistryVersion: 1,
		PublicKey:       RandomBytes(96),
	}
}

// NodeSigningKeyRecordFixture returns a valid node signing key record.
func NodeSigningKeyRecordFixture(t require.TestingT) *registry.PublicKeyRecord {
	sk, err := ECDSAKey()
	require.NoError(t, err)
	return &registry.PublicKeyRecord{
		Algorithm: crypto.ECDSAP256.String(),
		KeyValue:  sk.PublicKey().Encode(),
	}
}

// MinimalRegistryRecords returns the records every registry read needs for a network made of the
// given subnets: the subnet list, a record and initial transcripts per subnet and the root subnet
// id. Subnets have no members.
func MinimalRegistryRecords(rootSubnetID network.SubnetID, subnets ...network.SubnetID) map[string]interface{} {
	records := map[string]interface{}{
		registry.SubnetListKey:   &registry.SubnetListRecord{Subnets: subnets},
		registry.RootSubnetIDKey: &registry.RootSubnetIDRecord{SubnetID: rootSubnetID},
	}
	for _, subnetID := range subnets {
		records[registry.SubnetRecordKey(subnetID)] = &registry.SubnetRecord{
			MaxNumberOfCanisters: 784,
			DkgIntervalLength:    uint64(DefaultDkgIntervalLength),
		}
		records[registry.CatchUpPackageContentsKey(subnetID)] = &registry.CatchUpPackageContents{
			InitialNiDkgTranscriptHighThreshold: NiDkgTranscriptFixture(),
		}
	}
	return records
}
