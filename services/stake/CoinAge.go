package stake

import (
	"context"
	"math/big"

	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/clamcoin/clamnode/stores/txmeta"
)

// GetCoinAge returns the coin days consumed by tx. Every input is valued at
// value x seconds held, in cents, and inputs whose source block is younger
// than the minimum stake age count for nothing.
//
// Source blocks are resolved on the chain ending at prev, the block tx is
// being connected to. A previous transaction or source block that cannot be
// found yields a could-not-verify error. An input older than tx itself is a timestamp
// violation.
func GetCoinAge(ctx context.Context, params *chaincfg.Params, prev *model.BlockIndex, tx *model.Tx, txs txmeta.Store) (uint64, error) {
	if tx.IsCoinBase() {
		return 0, nil
	}

	centSeconds := new(big.Int)
	minAge := params.StakeMinAgeSeconds()

	for i, in := range tx.Inputs() {
		prevout := in.PreviousOutPoint

		data, err := txs.Get(ctx, &prevout.Hash)
		if err != nil {
			return 0, errors.NewTxNotFoundError("[GetCoinAge][%s] input %d spends unknown tx %s", tx.Hash(), i, prevout.Hash, err)
		}

		txPrev := data.Tx

		if tx.Time() < txPrev.Time() {
			return 0, errors.NewTxTimeViolationError("[GetCoinAge][%s] time %d is before input %d tx time %d", tx.Hash(), tx.Time(), i, txPrev.Time())
		}

		block, err := sourceBlock(prev, data.BlockHeight)
		if err != nil {
			return 0, errors.NewBlockNotFoundError("[GetCoinAge][%s] source block of input %d not found", tx.Hash(), i, err)
		}

		if block.BlockTime()+minAge > int64(tx.Time()) {
			continue
		}

		if int(prevout.Index) >= txPrev.OutputCount() {
			return 0, errors.NewTxInvalidError("[GetCoinAge][%s] input %d spends missing output %s", tx.Hash(), i, prevout)
		}

		value := big.NewInt(int64(txPrev.Output(int(prevout.Index)).Value))
		held := big.NewInt(int64(tx.Time() - txPrev.Time()))

		inputCentSeconds := value.Mul(value, held)
		inputCentSeconds.Quo(inputCentSeconds, big.NewInt(int64(model.CENT)))

		centSeconds.Add(centSeconds, inputCentSeconds)
	}

	coinDays := centSeconds.Mul(centSeconds, big.NewInt(int64(model.CENT)))
	coinDays.Quo(coinDays, big.NewInt(int64(model.COIN)))
	coinDays.Quo(coinDays, big.NewInt(secondsPerDay))

	if coinDays.Sign() < 0 {
		return 0, nil
	}

	return coinDays.Uint64(), nil
}
