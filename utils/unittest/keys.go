package unittest

import (
	"crypto/rand"
	"testing"

	"github.com/onflow/flow-go/crypto"
	"github.com/stretchr/testify/require"
)

// ECDSAKey returns a random ECDSA P-256 private key, the algorithm of node signing keys.
func ECDSAKey() (crypto.PrivateKey, error) {
	seed := make([]byte, crypto.KeyGenSeedMinLen)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return crypto.GeneratePrivateKey(crypto.ECDSAP256, seed)
}

// NodeSigningKeyFixture returns the encoded public key of a random node signing key.
func NodeSigningKeyFixture(t testing.TB) []byte {
	sk, err := ECDSAKey()
	require.NoError(t, err)
	return sk.PublicKey().Encode()
}
