package consensus

import (
	"encoding/hex"
	"strconv"
)

// Height is the position of a block in the agreed chain. Genesis is at height 0.
type Height uint64

func (h Height) Increment() Height {
	return h + 1
}

func (h Height) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// Hash is the SHA3-256 digest of a consensus artifact's canonical encoding.
type Hash [32]byte

// ZeroHash is the parent hash of the genesis block.
var ZeroHash = Hash{}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}
