package blockchain

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	blockchain_store "github.com/clamcoin/clamnode/stores/blockchain"
	"github.com/clamcoin/clamnode/ulogger"
)

var (
	// bigOne is 1 represented as a big.Int.  It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// oneLsh256 is 1 shifted left 256 bits.  It is defined here to avoid
	// the overhead of creating it multiple times.
	oneLsh256 = new(big.Int).Lsh(bigOne, 256)

	// uint256Mask keeps the low 256 bits of an intermediate product.
	uint256Mask = new(big.Int).Sub(oneLsh256, bigOne)
)

// RetargetEra identifies which retarget rule produced a target.
type RetargetEra int

const (
	RetargetV1 RetargetEra = iota + 1
	RetargetV2
	RetargetV3
)

func (e RetargetEra) String() string {
	switch e {
	case RetargetV1:
		return "v1"
	case RetargetV2:
		return "v2"
	case RetargetV3:
		return "v3"
	default:
		return "unknown"
	}
}

// RetargetEraFor returns the rule that applies to the block after last.
// The first two eras only ever existed on the main network.
func RetargetEraFor(last *model.BlockIndex, params *chaincfg.Params) RetargetEra {
	if last != nil && params.IsMainNet() {
		if last.Height < params.DistributionEndHeight {
			return RetargetV1
		}

		if last.Height <= params.ProtocolV2Height {
			return RetargetV2
		}
	}

	return RetargetV3
}

// GetNextWorkRequired returns the compact target required for the block
// built on top of last. It never fails: on insufficient history it falls
// back to the configured limit.
func GetNextWorkRequired(last *model.BlockIndex, params *chaincfg.Params, isPoS bool) model.NBit {
	if last == nil {
		return model.NewNBitFromUint32(params.PowLimitBits)
	}

	switch RetargetEraFor(last, params) {
	case RetargetV1:
		return GetNextTargetRequiredV1(last, params, isPoS)
	case RetargetV2:
		return GetNextTargetRequiredV2(last, params, isPoS)
	default:
		return GetNextTargetRequiredV3(last, params, isPoS)
	}
}

// GetNextTargetRequiredV1 is the distribution era rule: a moving average
// toward the proof of work spacing, always bounded by the proof of work limit.
func GetNextTargetRequiredV1(last *model.BlockIndex, params *chaincfg.Params, isPoS bool) model.NBit {
	spacing := seconds(params.TargetSpacing)

	return movingAverageTarget(last, params.PowLimit, seconds(params.TargetTimespan)/spacing, spacing, isPoS)
}

// GetNextTargetRequiredV2 uses the stake spacing and the limit of the
// requested proof type.
func GetNextTargetRequiredV2(last *model.BlockIndex, params *chaincfg.Params, isPoS bool) model.NBit {
	spacing := seconds(params.TargetStakeSpacing)

	return movingAverageTarget(last, targetLimit(params, isPoS), seconds(params.TargetTimespan)/spacing, spacing, isPoS)
}

// GetNextTargetRequiredV3 averages the spacing over a window of up to four
// intervals of same type blocks.
func GetNextTargetRequiredV3(last *model.BlockIndex, params *chaincfg.Params, isPoS bool) model.NBit {
	limit := targetLimit(params, isPoS)
	limitBits := model.NewNBitFromUint32(model.BigToCompact(limit))

	if last == nil {
		return limitBits
	}

	spacing := seconds(params.TargetStakeSpacing)
	interval := (seconds(params.TargetTimespan) / spacing) * 4
	prev := FindLastBlockOfType(last, isPoS)

	var (
		node     *model.BlockIndex
		prevPrev *model.BlockIndex
		count    int64
	)

	for node = prev; node != nil && node.Height != 0 && count < interval; node = FindLastBlockOfType(node, isPoS) {
		prevPrev = node

		node = node.Prev
		if node == nil {
			break
		}

		count++

		node = FindLastBlockOfType(node, isPoS)
	}

	// the step onto genesis is not a full interval
	if node == nil || node.Height == 0 {
		count--
	}

	count--

	if count < 1 {
		return limitBits
	}

	actualSpacing := (prev.BlockTime() - prevPrev.BlockTime()) / count
	if actualSpacing < 0 {
		actualSpacing = spacing
	}

	return retarget(prev.Bits, limit, interval, spacing, actualSpacing)
}

// movingAverageTarget is the shared body of the V1 and V2 rules.
func movingAverageTarget(last *model.BlockIndex, limit *big.Int, interval, spacing int64, isPoS bool) model.NBit {
	limitBits := model.NewNBitFromUint32(model.BigToCompact(limit))

	if last == nil {
		return limitBits
	}

	prev := FindLastBlockOfType(last, isPoS)
	if prev.Prev == nil {
		return limitBits
	}

	prevPrev := FindLastBlockOfType(prev.Prev, isPoS)
	if prevPrev.Prev == nil {
		return limitBits
	}

	actualSpacing := prev.BlockTime() - prevPrev.BlockTime()
	if actualSpacing < 0 {
		actualSpacing = spacing
	}

	return retarget(prev.Bits, limit, interval, spacing, actualSpacing)
}

// retarget computes
//
//	prev * ((interval-1)*spacing + 2*actual) / ((interval+1)*spacing)
//
// with the same 256-bit unsigned arithmetic the network has always used: the
// multiplier is truncated to 32 bits and the product wraps modulo 2^256.
// Results outside (0, limit] are replaced by the limit.
func retarget(prevBits model.NBit, limit *big.Int, interval, spacing, actualSpacing int64) model.NBit {
	limitBits := model.NewNBitFromUint32(model.BigToCompact(limit))

	divisor := (interval + 1) * spacing
	if divisor <= 0 {
		return limitBits
	}

	//nolint:gosec // G115: truncation is part of the consensus rule
	multiplier := uint32((interval-1)*spacing + 2*actualSpacing)

	target := expandTarget(prevBits)
	target.Mul(target, new(big.Int).SetUint64(uint64(multiplier)))
	target.And(target, uint256Mask)
	target.Quo(target, big.NewInt(divisor))

	if target.Sign() <= 0 || target.Cmp(limit) > 0 {
		return limitBits
	}

	return model.NewNBitFromUint32(model.BigToCompact(target))
}

// expandTarget decodes bits into a 256-bit unsigned value, dropping any bits
// shifted past the top the way a fixed width integer would.
func expandTarget(bits model.NBit) *big.Int {
	target := bits.CalculateTarget()

	return target.And(target, uint256Mask)
}

func targetLimit(params *chaincfg.Params, isPoS bool) *big.Int {
	if isPoS {
		return params.PosLimit
	}

	return params.PowLimit
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

// Difficulty wraps the retarget rules with logging, metrics and a one entry
// cache for the current tip.
type Difficulty struct {
	logger      ulogger.Logger
	store       blockchain_store.Store
	chainParams *chaincfg.Params

	mu                sync.Mutex
	bestBlockHash     *chainhash.Hash
	bestBlockIsPoS    bool
	lastComputednBits model.NBit
}

func NewDifficulty(store blockchain_store.Store, logger ulogger.Logger, params *chaincfg.Params) (*Difficulty, error) {
	if params == nil {
		return nil, errors.NewConfigurationError("chain params are required")
	}

	initPrometheusMetrics()

	return &Difficulty{
		logger:      logger,
		store:       store,
		chainParams: params,
	}, nil
}

// NextWorkRequired returns the target for the block after last, reusing the
// previous answer when asked again for the same tip and proof type.
func (d *Difficulty) NextWorkRequired(last *model.BlockIndex, isPoS bool) model.NBit {
	if last != nil {
		d.mu.Lock()
		if d.bestBlockHash != nil && d.bestBlockHash.IsEqual(last.Hash) && d.bestBlockIsPoS == isPoS {
			nBits := d.lastComputednBits
			d.mu.Unlock()

			d.logger.Debugf("returning cached target %s for %s", nBits, last.Hash)

			return nBits
		}
		d.mu.Unlock()
	}

	start := time.Now()
	era := RetargetEraFor(last, d.chainParams)

	nBits := GetNextWorkRequired(last, d.chainParams, isPoS)

	prometheusRetarget.WithLabelValues(era.String()).Observe(time.Since(start).Seconds())

	if last == nil {
		d.logger.Debugf("no previous block, returning limit %s", nBits)
		return nBits
	}

	d.logger.Debugf("[%s] next target after height %d (pos=%t): %s -> %s", era, last.Height, isPoS, last.Bits, nBits)

	d.mu.Lock()
	d.bestBlockHash = last.Hash
	d.bestBlockIsPoS = isPoS
	d.lastComputednBits = nBits
	d.mu.Unlock()

	return nBits
}

// CalcNextWorkRequired returns the target for the next block on the best chain.
func (d *Difficulty) CalcNextWorkRequired(ctx context.Context, isPoS bool) (model.NBit, error) {
	best, err := d.store.GetBestBlockIndex(ctx)
	if err != nil {
		return model.NBit{}, errors.NewProcessingError("error getting best block", err)
	}

	return d.NextWorkRequired(best, isPoS), nil
}

// ValidateBlockDifficulty checks that header carries the bits required on
// top of its parent.
func (d *Difficulty) ValidateBlockDifficulty(ctx context.Context, header *model.BlockHeader, isPoS bool) error {
	prev, err := d.store.GetBlockIndex(ctx, header.HashPrevBlock)
	if err != nil {
		return errors.NewBlockNotFoundError("parent %s of block %s", header.HashPrevBlock, header.Hash(), err)
	}

	required := d.NextWorkRequired(prev, isPoS)
	if required != header.Bits {
		prometheusDifficultyMismatch.Inc()

		return errors.NewBlockInvalidError("block %s has bits %s, expected %s", header.Hash(), header.Bits, required)
	}

	return nil
}
