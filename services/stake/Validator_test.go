package stake

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/clamcoin/clamnode/settings"
	"github.com/clamcoin/clamnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T, s *stores, verifier ScriptVerifier) *Validator {
	tSettings := &settings.Settings{
		ChainCfgParams: s.params,
		Stake:          settings.StakeSettings{KernelDebug: true},
	}

	v, err := New(ulogger.TestLogger{}, tSettings, s.txs, s.chain, verifier)
	require.NoError(t, err)

	return v
}

func TestNew(t *testing.T) {
	s := newStores(t)
	tSettings := &settings.Settings{ChainCfgParams: &chaincfg.RegressionNetParams}

	_, err := New(ulogger.TestLogger{}, &settings.Settings{}, s.txs, s.chain, &mockVerifier{})
	assert.True(t, errors.Is(err, errors.ErrConfiguration))

	_, err = New(ulogger.TestLogger{}, tSettings, nil, s.chain, &mockVerifier{})
	assert.True(t, errors.Is(err, errors.ErrConfiguration))

	_, err = New(ulogger.TestLogger{}, tSettings, s.txs, nil, &mockVerifier{})
	assert.True(t, errors.Is(err, errors.ErrConfiguration))

	_, err = New(ulogger.TestLogger{}, tSettings, s.txs, s.chain, nil)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestValidator_CheckBlock(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)
	source := s.addSource(t, 100*model.COIN)
	stakeTime := (s.genesis.Time + 3600) &^ StakeTimestampMask

	key, err := bec.NewPrivateKey()
	require.NoError(t, err)

	v := newTestValidator(t, s, &mockVerifier{})

	t.Run("valid proof of stake block", func(t *testing.T) {
		block := newStakeBlock(t, s, source, stakeTime, p2pk(key.PubKey()), key)

		proof, err := v.CheckBlock(ctx, s.genesis, block)
		require.NoError(t, err)
		require.NotNil(t, proof)
		assert.True(t, proof.Met())
	})

	t.Run("header prevout differs from the coinstake", func(t *testing.T) {
		block := newStakeBlock(t, s, source, stakeTime, p2pk(key.PubKey()), nil)
		block.Header.PrevoutStake = model.NewOutPoint(&chainhash.Hash{0xde, 0xad}, 7)

		sig, err := key.Sign(block.Hash().CloneBytes())
		require.NoError(t, err)
		block.Header.Signature = sig.Serialize()

		require.True(t, block.IsProofOfStake())

		_, err = v.CheckBlock(ctx, s.genesis, block)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrBlockInvalid))
	})

	t.Run("unmasked coinstake time", func(t *testing.T) {
		block := newStakeBlock(t, s, source, stakeTime+1, p2pk(key.PubKey()), key)

		_, err := v.CheckBlock(ctx, s.genesis, block)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrStakeTimestamp))
	})

	t.Run("unsigned block", func(t *testing.T) {
		block := newStakeBlock(t, s, source, stakeTime, p2pk(key.PubKey()), nil)

		proof, err := v.CheckBlock(ctx, s.genesis, block)
		require.Error(t, err)
		assert.NotNil(t, proof)
		assert.True(t, errors.Is(err, errors.ErrBlockBadSignature))
	})

	t.Run("rejected coinstake script", func(t *testing.T) {
		rejecting := newTestValidator(t, s, &mockVerifier{err: errors.NewTxInvalidError("script failed")})
		block := newStakeBlock(t, s, source, stakeTime, p2pk(key.PubKey()), key)

		_, err := rejecting.CheckBlock(ctx, s.genesis, block)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrStakeScriptInvalid))
	})

	t.Run("proof of work block", func(t *testing.T) {
		proof, err := v.CheckBlock(ctx, s.genesis, s.params.GenesisBlock)
		require.NoError(t, err)
		assert.Nil(t, proof)
	})
}

func TestValidator_CheckKernel(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)
	source := s.addSource(t, 100*model.COIN)
	v := newTestValidator(t, s, &mockVerifier{})

	proof, ok, err := v.CheckKernel(ctx, s.genesis, model.NewNBitFromUint32(easyBits), model.NewOutPoint(source.Hash(), 0), s.genesis.Time+3600)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, proof)

	_, ok, err = v.CheckKernel(ctx, s.genesis, model.NewNBitFromUint32(hardBits), model.NewOutPoint(source.Hash(), 0), s.genesis.Time+3600)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidator_GetCoinAge(t *testing.T) {
	s := newStores(t)
	source := s.addSource(t, 50*model.COIN)
	v := newTestValidator(t, s, &mockVerifier{})

	coinAge, err := v.GetCoinAge(context.Background(), spendingTx(t, s.genesis.Time+4*24*60*60, source))
	require.NoError(t, err)
	assert.Equal(t, uint64(200), coinAge)
}
