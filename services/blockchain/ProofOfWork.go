package blockchain

import (
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
)

// HashToBig converts a hash into the 256-bit integer it represents. Hashes
// are stored little-endian.
func HashToBig(hash *chainhash.Hash) *big.Int {
	return new(big.Int).SetBytes(bt.ReverseBytes(hash[:]))
}

// CheckProofOfWork reports whether hash satisfies the target encoded in bits.
// Negative, zero and overflowed encodings are rejected, as is any target
// easier than the limit of the given proof type.
func CheckProofOfWork(hash *chainhash.Hash, bits model.NBit, params *chaincfg.Params, isPoS bool) bool {
	initPrometheusMetrics()
	prometheusCheckProofOfWork.Inc()

	target, negative, overflow := bits.Decode()
	if negative || overflow || target.Sign() == 0 || target.Cmp(targetLimit(params, isPoS)) > 0 {
		prometheusCheckProofOfWorkFailed.WithLabelValues("range").Inc()
		return false
	}

	if HashToBig(hash).Cmp(target) > 0 {
		prometheusCheckProofOfWorkFailed.WithLabelValues("hash").Inc()
		return false
	}

	return true
}

// CheckBlockProofOfWork validates the scrypt proof of work of a block.
// Proof of stake blocks carry no work and always pass.
func CheckBlockProofOfWork(block *model.Block, params *chaincfg.Params) error {
	if block.IsProofOfStake() {
		return nil
	}

	if !CheckProofOfWork(block.Header.PoWHash(), block.Header.Bits, params, false) {
		return errors.NewBlockBadPoWError("block %s does not meet target %s", block.Hash(), block.Header.Bits)
	}

	return nil
}

// CheckCheckpoint rejects a block whose hash differs from the checkpoint at
// its height. Heights without a checkpoint always pass.
func CheckCheckpoint(height int32, hash *chainhash.Hash, params *chaincfg.Params) error {
	expected := params.CheckpointHash(height)
	if expected == nil {
		return nil
	}

	if !expected.IsEqual(hash) {
		return errors.NewCheckpointMismatchError("block %s at height %d does not match checkpoint %s", hash, height, expected)
	}

	return nil
}
