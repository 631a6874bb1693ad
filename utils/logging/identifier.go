package logging

import (
	"golang.org/x/exp/slices"

	"github.com/replicanet/replica/model/consensus"
	"github.com/replicanet/replica/model/network"
)

// Hash returns the hex form of a block hash, shortened to the prefix operators grep for.
func Hash(h consensus.Hash) string {
	return h.String()[:16]
}

func NodeIDs(ids []network.NodeID) []string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, id.String())
	}
	return ss
}

// SubnetIDs returns the hex forms of the ids in lexical order, so log lines of equal sets match.
func SubnetIDs(ids []network.SubnetID) []string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, id.String())
	}
	slices.Sort(ss)
	return ss
}
