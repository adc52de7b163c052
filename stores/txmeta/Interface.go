package txmeta

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/model"
)

// Store resolves previous transactions for the stake checks: the transaction
// itself, the height of the block containing it and its offset in that block.
type Store interface {
	Get(ctx context.Context, hash *chainhash.Hash) (*Data, error)
	Set(ctx context.Context, tx *model.Tx, blockHeight uint32, txOffset uint32) (*Data, error)
	Delete(ctx context.Context, hash *chainhash.Hash) error
}
