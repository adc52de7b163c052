package stake

import (
	"context"

	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/clamcoin/clamnode/stores/txmeta"
)

// ScriptVerifier checks that input inputIndex of tx satisfies the locking
// script of the output it spends.
type ScriptVerifier interface {
	VerifyInput(tx *model.Tx, inputIndex int, lockingScript []byte, value model.Amount) error
}

// sourceBlock returns the block at height on the chain ending at prev. A
// height that prev's chain does not reach cannot be verified.
func sourceBlock(prev *model.BlockIndex, height uint32) (*model.BlockIndex, error) {
	h, err := safeconversion.Uint32ToInt32(height)
	if err != nil {
		return nil, errors.NewBlockNotFoundError("no block at height %d", height, err)
	}

	block := prev.Ancestor(h)
	if block == nil {
		return nil, errors.NewBlockNotFoundError("no block at height %d on the chain of %s at height %d", height, prev.Hash, prev.Height)
	}

	return block, nil
}

// loadStakeSource resolves the staked output of prevout and the block it
// was mined in on the chain ending at prev.
func loadStakeSource(ctx context.Context, prev *model.BlockIndex, prevout model.OutPoint, txs txmeta.Store) (StakeSource, error) {
	data, err := txs.Get(ctx, &prevout.Hash)
	if err != nil {
		return StakeSource{}, errors.NewTxNotFoundError("staked tx %s not found", prevout.Hash, err)
	}

	block, err := sourceBlock(prev, data.BlockHeight)
	if err != nil {
		return StakeSource{}, errors.NewBlockNotFoundError("block of staked tx %s not found", prevout.Hash, err)
	}

	return StakeSource{
		BlockTime: block.Time,
		Tx:        data.Tx,
		TxOffset:  data.TxOffset,
	}, nil
}

// CheckProofOfStake validates coinstake tx for the block after prev: the
// staked output must exist, the coinstake must be allowed to spend it and
// its kernel must meet bits.
func CheckProofOfStake(ctx context.Context, params *chaincfg.Params, prev *model.BlockIndex, tx *model.Tx, bits model.NBit,
	txs txmeta.Store, verifier ScriptVerifier) (*KernelProof, error) {
	if !tx.IsCoinStake() {
		return nil, errors.NewStakeKernelError("[CheckProofOfStake] tx %s is not a coinstake", tx.Hash())
	}

	prevout := tx.Input(0).PreviousOutPoint

	source, err := loadStakeSource(ctx, prev, prevout, txs)
	if err != nil {
		return nil, err
	}

	if int(prevout.Index) >= source.Tx.OutputCount() {
		return nil, errors.NewStakeKernelError("[CheckProofOfStake] coinstake %s stakes missing output %s", tx.Hash(), prevout)
	}

	staked := source.Tx.Output(int(prevout.Index))

	if err = verifier.VerifyInput(tx, 0, staked.PkScript, staked.Value); err != nil {
		return nil, errors.NewStakeScriptInvalidError("[CheckProofOfStake] coinstake %s signature check failed", tx.Hash(), err)
	}

	proof, ok, err := CheckStakeKernelHash(params, prev, bits, source, prevout, tx.Time())
	if err != nil {
		return nil, err
	}

	if !ok {
		//nolint:gosec // heights are never negative here
		return proof, errors.NewStakeTargetMissedErrorWithData(proof.Hash.String(), proof.Target.Text(16), uint32(prev.Height+1),
			"[CheckProofOfStake] kernel of coinstake %s does not meet target", tx.Hash())
	}

	return proof, nil
}

// CheckKernel looks up prevout and checks its kernel at txTime. Outputs that
// have not reached the minimum stake age report false without an error,
// which makes it suitable for scanning candidates.
func CheckKernel(ctx context.Context, params *chaincfg.Params, prev *model.BlockIndex, bits model.NBit, prevout model.OutPoint, txTime uint32,
	txs txmeta.Store) (*KernelProof, bool, error) {
	source, err := loadStakeSource(ctx, prev, prevout, txs)
	if err != nil {
		return nil, false, err
	}

	if int64(source.BlockTime)+params.StakeMinAgeSeconds() > int64(txTime) {
		return nil, false, nil
	}

	return CheckStakeKernelHash(params, prev, bits, source, prevout, txTime)
}
