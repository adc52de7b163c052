package model

import (
	"fmt"
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// BlockIndex is a node of the in-memory chain index. Consensus code only
// reads it, the chain store owns and links the nodes.
type BlockIndex struct {
	Hash          *chainhash.Hash
	Prev          *BlockIndex
	Height        int32
	Time          uint32
	Bits          NBit
	ProofOfStake  bool
	StakeModifier uint64

	// ChainTrust is the cumulative trust up to and including this block.
	ChainTrust *big.Int
}

// NewBlockIndex creates a node for header on top of prev (nil for genesis).
func NewBlockIndex(header *BlockHeader, prev *BlockIndex, isProofOfStake bool) *BlockIndex {
	height := int32(0)
	if prev != nil {
		height = prev.Height + 1
	}

	return &BlockIndex{
		Hash:         header.Hash(),
		Prev:         prev,
		Height:       height,
		Time:         header.Timestamp,
		Bits:         header.Bits,
		ProofOfStake: isProofOfStake,
	}
}

func (bi *BlockIndex) BlockTime() int64 {
	return int64(bi.Time)
}

func (bi *BlockIndex) IsProofOfStake() bool {
	return bi.ProofOfStake
}

func (bi *BlockIndex) IsProofOfWork() bool {
	return !bi.ProofOfStake
}

// Ancestor walks back to the node at the given height, nil when height is
// out of range.
func (bi *BlockIndex) Ancestor(height int32) *BlockIndex {
	if height < 0 || height > bi.Height {
		return nil
	}

	n := bi
	for n != nil && n.Height > height {
		n = n.Prev
	}

	return n
}

func (bi *BlockIndex) String() string {
	kind := "PoW"
	if bi.ProofOfStake {
		kind = "PoS"
	}

	return fmt.Sprintf("BlockIndex(height=%d, hash=%s, %s, time=%d, bits=%s)", bi.Height, bi.Hash, kind, bi.Time, bi.Bits)
}
