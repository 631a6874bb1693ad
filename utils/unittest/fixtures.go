package unittest

import (
	crand "crypto/rand"
	"fmt"
	"time"

	"github.com/replicanet/replica/model/batch"
	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/model/network"
)

func IdentifierFixture() network.Identifier {
	var id network.Identifier
	_, _ = crand.Read(id[:])
	return id
}

func SubnetIDFixture() network.SubnetID {
	return network.SubnetID(IdentifierFixture())
}

func NodeIDFixture() network.NodeID {
	return network.NodeID(IdentifierFixture())
}

func NodeIDListFixture(n int) []network.NodeID {
	list := make([]network.NodeID, n)
	for i := 0; i < n; i++ {
		list[i] = NodeIDFixture()
	}
	return list
}

func SubnetIDListFixture(n int) []network.SubnetID {
	list := make([]network.SubnetID, n)
	for i := 0; i < n; i++ {
		list[i] = SubnetIDFixture()
	}
	return list
}

func HashFixture() consensus.Hash {
	var h consensus.Hash
	_, _ = crand.Read(h[:])
	return h
}

func RandomBytes(n int) []byte {
	b := make([]byte, n)
	read, err := crand.Read(b)
	if err != nil {
		panic("cannot read random bytes")
	}
	if read != n {
		panic(fmt.Errorf("cannot read enough random bytes (got %d of %d)", read, n))
	}
	return b
}

func SeedFixture(n int) []byte {
	var seed = make([]byte, n)
	_, _ = crand.Read(seed)
	return seed
}

// BatchFixture returns a batch with the given number, a random randomness and a few
// ingress messages.
func BatchFixture(number consensus.Height, opts ...func(*batch.Batch)) *batch.Batch {
	var randomness [32]byte
	_, _ = crand.Read(randomness[:])
	b := &batch.Batch{
		BatchNumber:     number,
		RegistryVersion: 1,
		Randomness:      randomness,
		Time:            time.Unix(1_600_000_000+int64(number), 0).UTC(),
		Messages: batch.Messages{
			Ingress: [][]byte{RandomBytes(16), RandomBytes(16)},
		},
	}
	for _, apply := range opts {
		apply(b)
	}
	return b
}

func WithRegistryVersion(version uint64) func(*batch.Batch) {
	return func(b *batch.Batch) {
		b.RegistryVersion = version
	}
}

func WithFullStateHash() func(*batch.Batch) {
	return func(b *batch.Batch) {
		b.RequiresFullStateHash = true
	}
}

// BatchesFixture returns consecutive batches starting at the given number.
func BatchesFixture(from consensus.Height, n int) []*batch.Batch {
	batches := make([]*batch.Batch, 0, n)
	for i := 0; i < n; i++ {
		batches = append(batches, BatchFixture(from+consensus.Height(i)))
	}
	return batches
}
