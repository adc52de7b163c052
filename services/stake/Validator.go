package stake

import (
	"context"
	"time"

	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/clamcoin/clamnode/settings"
	"github.com/clamcoin/clamnode/stores/blockchain"
	"github.com/clamcoin/clamnode/stores/txmeta"
	"github.com/clamcoin/clamnode/ulogger"
)

// Validator runs the stake checks against its stores and records metrics.
type Validator struct {
	logger      ulogger.Logger
	settings    *settings.Settings
	chainParams *chaincfg.Params
	txMetaStore txmeta.Store
	chainStore  blockchain.Store
	verifier    ScriptVerifier
}

func New(logger ulogger.Logger, tSettings *settings.Settings, txMetaStore txmeta.Store, chainStore blockchain.Store, verifier ScriptVerifier) (*Validator, error) {
	if tSettings == nil || tSettings.ChainCfgParams == nil {
		return nil, errors.NewConfigurationError("[stake] chain params are required")
	}

	if txMetaStore == nil || chainStore == nil {
		return nil, errors.NewConfigurationError("[stake] txmeta and blockchain stores are required")
	}

	if verifier == nil {
		return nil, errors.NewConfigurationError("[stake] script verifier is required")
	}

	initPrometheusMetrics()

	return &Validator{
		logger:      logger,
		settings:    tSettings,
		chainParams: tSettings.ChainCfgParams,
		txMetaStore: txMetaStore,
		chainStore:  chainStore,
		verifier:    verifier,
	}, nil
}

// CheckProofOfStake validates the coinstake of the block after prev.
func (v *Validator) CheckProofOfStake(ctx context.Context, prev *model.BlockIndex, tx *model.Tx, bits model.NBit) (*KernelProof, error) {
	start := time.Now()
	defer func() {
		prometheusStakeCheckProofOfStake.Observe(time.Since(start).Seconds())
	}()

	proof, err := CheckProofOfStake(ctx, v.chainParams, prev, tx, bits, v.txMetaStore, v.verifier)
	if proof != nil {
		v.logKernel(prev, tx.Input(0).PreviousOutPoint, tx.Time(), proof)
	}

	if err != nil {
		v.countFailure(err)
		return proof, err
	}

	return proof, nil
}

// CheckKernel checks a single stake candidate.
func (v *Validator) CheckKernel(ctx context.Context, prev *model.BlockIndex, bits model.NBit, prevout model.OutPoint, txTime uint32) (*KernelProof, bool, error) {
	prometheusStakeKernelChecks.Inc()

	proof, ok, err := CheckKernel(ctx, v.chainParams, prev, bits, prevout, txTime, v.txMetaStore)
	if err != nil {
		v.countFailure(err)
		return nil, false, err
	}

	v.logKernel(prev, prevout, txTime, proof)

	if ok {
		prometheusStakeKernelHits.Inc()
	}

	return proof, ok, nil
}

// GetCoinAge returns the coin days consumed by tx if it were mined on top of
// the best chain.
func (v *Validator) GetCoinAge(ctx context.Context, tx *model.Tx) (uint64, error) {
	prometheusStakeCoinAge.Inc()

	best, err := v.chainStore.GetBestBlockIndex(ctx)
	if err != nil {
		return 0, errors.NewBlockNotFoundError("[GetCoinAge][%s] no best block", tx.Hash(), err)
	}

	coinAge, err := GetCoinAge(ctx, v.chainParams, best, tx, v.txMetaStore)
	if err != nil {
		v.countFailure(err)
		return 0, err
	}

	v.logger.Debugf("[GetCoinAge][%s] coin age %d", tx.Hash(), coinAge)

	return coinAge, nil
}

// CheckBlock runs the stake rules of a proof of stake block built on prev:
// the header stake prevout, the coinstake timestamp, the kernel and the
// block signature.
func (v *Validator) CheckBlock(ctx context.Context, prev *model.BlockIndex, block *model.Block) (*KernelProof, error) {
	if !block.IsProofOfStake() {
		return nil, CheckBlockSignature(block)
	}

	coinStake := block.CoinStake()
	if coinStake == nil {
		return nil, errors.NewBlockInvalidError("[CheckBlock] proof of stake block %s has no coinstake", block.Hash())
	}

	// the stake prevout is not covered by the block hash
	if block.Header.Format == model.HeaderFormatCurrent && block.Header.PrevoutStake != coinStake.Input(0).PreviousOutPoint {
		prometheusStakeRuleViolations.WithLabelValues(errors.ERR_BLOCK_INVALID.String()).Inc()
		return nil, errors.NewBlockInvalidError("[CheckBlock] block %s stake prevout %s does not match coinstake input %s",
			block.Hash(), block.Header.PrevoutStake, coinStake.Input(0).PreviousOutPoint)
	}

	height := prev.Height + 1
	if !CheckCoinStakeTimestamp(v.chainParams, height, int64(block.Header.Timestamp), int64(coinStake.Time())) {
		prometheusStakeRuleViolations.WithLabelValues(errors.ERR_STAKE_TIMESTAMP.String()).Inc()
		return nil, errors.NewStakeTimestampError("[CheckBlock] coinstake time %d does not match block %s time %d", coinStake.Time(), block.Hash(), block.Header.Timestamp)
	}

	proof, err := v.CheckProofOfStake(ctx, prev, coinStake, block.Header.Bits)
	if err != nil {
		return proof, err
	}

	if err = CheckBlockSignature(block); err != nil {
		v.countFailure(err)
		return proof, err
	}

	v.logger.Infof("[CheckBlock] block %s at height %d staked %s, kernel %s", block.Hash(), height, coinStake.Input(0).PreviousOutPoint, proof.Hash)

	return proof, nil
}

func (v *Validator) logKernel(prev *model.BlockIndex, prevout model.OutPoint, txTime uint32, proof *KernelProof) {
	if !v.settings.Stake.KernelDebug || proof == nil {
		return
	}

	v.logger.Debugf("[kernel] modifier=%016x height=%d prevout=%s time=%d hash=%s target=%s met=%t",
		prev.StakeModifier, prev.Height+1, prevout, txTime, proof.Hash, proof.Target.Text(16), proof.Met())
}

func (v *Validator) countFailure(err error) {
	var tErr *errors.Error
	if errors.As(err, &tErr) {
		prometheusStakeRuleViolations.WithLabelValues(tErr.Code().String()).Inc()
		return
	}

	prometheusStakeRuleViolations.WithLabelValues("unknown").Inc()
}
