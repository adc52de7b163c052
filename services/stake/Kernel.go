// Package stake implements the proof-of-stake consensus checks: the kernel
// hash, coin age and the validation of coinstake transactions and block
// signatures.
//
// A kernel is the hash of the stake modifier, the times of the staked output
// and its block, the outpoint itself and the candidate timestamp. A stake is
// valid when that hash is at or below the block target scaled by the weight of
// the staked output.
//
// Two kernel protocols exist. Protocol v1 weights the target by coin days
// accumulated past the minimum stake age and hashes the exact timestamp.
// Protocol v2, active above the configured activation height, weights the
// target by value alone and hashes the timestamp with its low bits masked.
package stake

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"time"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
)

const (
	// StakeTimestampMask reduces the granularity of coinstake timestamps.
	// It must be 2^n-1.
	StakeTimestampMask = 15

	// ModifierIntervalRatio is the ratio of group interval length between
	// the last group and the first group of a stake modifier selection.
	ModifierIntervalRatio = 3

	secondsPerDay = 24 * 60 * 60
)

// KernelProof is the outcome of hashing a kernel: the kernel hash and the
// weighted target it was compared against.
type KernelProof struct {
	Hash   *chainhash.Hash
	Target *big.Int
}

// Met reports whether the kernel hash is at or below the target.
func (kp *KernelProof) Met() bool {
	return hashToBig(kp.Hash).Cmp(kp.Target) <= 0
}

// StakeSource is the output being staked together with where it was mined.
type StakeSource struct {
	// BlockTime is the time of the block containing Tx.
	BlockTime uint32
	Tx        *model.Tx
	// TxOffset is the byte offset of Tx inside its block.
	TxOffset uint32
}

// CheckStakeKernelHash checks whether prevout, staked at txTime on top of
// prev, meets the target encoded in bits.
//
// A rule violation (timestamp before the staked output, output below the
// minimum age, unknown output index) is returned as an error before any
// hashing. A kernel hash above the target is not an error: the proof is
// returned with ok set to false so a stake search can move on.
func CheckStakeKernelHash(params *chaincfg.Params, prev *model.BlockIndex, bits model.NBit, source StakeSource, prevout model.OutPoint, txTime uint32) (*KernelProof, bool, error) {
	txPrev := source.Tx

	if txTime < txPrev.Time() {
		return nil, false, errors.NewStakeTimestampError("[CheckStakeKernelHash] time %d is before staked tx %s time %d", txTime, txPrev.Hash(), txPrev.Time())
	}

	if int64(source.BlockTime)+params.StakeMinAgeSeconds() > int64(txTime) {
		return nil, false, errors.NewStakeMinAgeError("[CheckStakeKernelHash] output %s from block time %d is younger than %d seconds at %d", prevout, source.BlockTime, params.StakeMinAgeSeconds(), txTime)
	}

	if int(prevout.Index) >= txPrev.OutputCount() {
		return nil, false, errors.NewStakeKernelError("[CheckStakeKernelHash] tx %s has no output %d", txPrev.Hash(), prevout.Index)
	}

	var proof *KernelProof

	if params.IsProtocolV2(prev.Height + 1) {
		proof = kernelV2(prev, bits, source, prevout, txTime)
	} else {
		proof = kernelV1(params, prev, bits, source, prevout, txTime)
	}

	return proof, proof.Met(), nil
}

// kernelV2 hashes
//
//	modifier | blockFromTime | txPrev.time | prevout.hash | prevout.n | masked txTime
//
// against the target multiplied by the staked value.
func kernelV2(prev *model.BlockIndex, bits model.NBit, source StakeSource, prevout model.OutPoint, txTime uint32) *KernelProof {
	target := blockTarget(bits)
	target.Mul(target, big.NewInt(int64(source.Tx.Output(int(prevout.Index)).Value)))

	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, prev.StakeModifier)
	_ = binary.Write(buf, binary.LittleEndian, source.BlockTime)
	_ = binary.Write(buf, binary.LittleEndian, source.Tx.Time())
	buf.Write(prevout.Hash[:])
	_ = binary.Write(buf, binary.LittleEndian, prevout.Index)
	_ = binary.Write(buf, binary.LittleEndian, txTime&^StakeTimestampMask)

	hash := chainhash.DoubleHashH(buf.Bytes())

	return &KernelProof{Hash: &hash, Target: target}
}

// kernelV1 hashes
//
//	modifier | blockFromTime | txOffset | txPrev.time | prevout.n | txTime
//
// against the target multiplied by the coin days the output has aged past
// the minimum stake age.
func kernelV1(params *chaincfg.Params, prev *model.BlockIndex, bits model.NBit, source StakeSource, prevout model.OutPoint, txTime uint32) *KernelProof {
	value := big.NewInt(int64(source.Tx.Output(int(prevout.Index)).Value))
	timeWeight := big.NewInt(GetWeight(params, int64(source.Tx.Time()), int64(txTime)))

	coinDayWeight := new(big.Int).Mul(value, timeWeight)
	coinDayWeight.Quo(coinDayWeight, big.NewInt(int64(model.COIN)))
	coinDayWeight.Quo(coinDayWeight, big.NewInt(secondsPerDay))

	target := blockTarget(bits)
	target.Mul(target, coinDayWeight)

	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, prev.StakeModifier)
	_ = binary.Write(buf, binary.LittleEndian, source.BlockTime)
	_ = binary.Write(buf, binary.LittleEndian, source.TxOffset)
	_ = binary.Write(buf, binary.LittleEndian, source.Tx.Time())
	_ = binary.Write(buf, binary.LittleEndian, prevout.Index)
	_ = binary.Write(buf, binary.LittleEndian, txTime)

	hash := chainhash.DoubleHashH(buf.Bytes())

	return &KernelProof{Hash: &hash, Target: target}
}

// GetWeight returns the time weight of an output held from begin to end:
// the time past the minimum stake age, capped at the maximum stake age when
// one is configured.
func GetWeight(params *chaincfg.Params, begin, end int64) int64 {
	weight := end - begin

	if maxAge := int64(params.StakeMaxAge / time.Second); maxAge > 0 && weight > maxAge {
		weight = maxAge
	}

	return weight - params.StakeMinAgeSeconds()
}

// CheckCoinStakeTimestamp checks that a coinstake carries the block time and,
// from protocol v2 on, that the time is a multiple of the mask granularity.
func CheckCoinStakeTimestamp(params *chaincfg.Params, height int32, blockTime, txTime int64) bool {
	if params.IsProtocolV2(height) {
		return blockTime == txTime && txTime&StakeTimestampMask == 0
	}

	return blockTime == txTime
}

// blockTarget expands bits the way the kernel has always done it: a set sign
// bit yields a negative target that no hash can meet.
func blockTarget(bits model.NBit) *big.Int {
	target, negative, _ := bits.Decode()
	if negative {
		target.Neg(target)
	}

	return target
}

func hashToBig(hash *chainhash.Hash) *big.Int {
	return new(big.Int).SetBytes(bt.ReverseBytes(hash[:]))
}
