package blockchain

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/model"
)

// Store is the chain index the consensus checks read from.  The nodes it
// returns are shared and must not be modified by callers.
type Store interface {
	GetBlockIndex(ctx context.Context, blockHash *chainhash.Hash) (*model.BlockIndex, error)
	// GetBlockIndexByHeight returns the node at height on the best chain.
	GetBlockIndexByHeight(ctx context.Context, height uint32) (*model.BlockIndex, error)
	GetBestBlockIndex(ctx context.Context) (*model.BlockIndex, error)
	AddBlockIndex(ctx context.Context, header *model.BlockHeader, isProofOfStake bool, stakeModifier uint64) (*model.BlockIndex, error)
}
