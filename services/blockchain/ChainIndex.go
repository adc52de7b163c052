package blockchain

import (
	"github.com/clamcoin/clamnode/model"
)

// FindLastBlockOfType walks back from node to the most recent block whose
// proof type matches wantPoS. The walk stops at genesis, so a node without a
// predecessor is returned even when its type does not match.
func FindLastBlockOfType(node *model.BlockIndex, wantPoS bool) *model.BlockIndex {
	for node != nil && node.Prev != nil && node.IsProofOfStake() != wantPoS {
		node = node.Prev
	}

	return node
}
