package stake

import (
	"math/big"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	sourceTime = 1400000000

	// easyBits multiplied by any stake value is above every hash
	easyBits = 0x207fffff
	// hardBits is a target of 1
	hardBits = 0x01010000
)

var p2pkScript = append(append([]byte{0x21, 0x02}, make([]byte, 32)...), 0xac)

// newSourceTx builds a transaction paying value to a single output.
func newSourceTx(t require.TestingT, txTime uint32, value model.Amount) *model.Tx {
	m := model.NewMutableTx()
	m.Time = txTime
	m.AddInput(model.NewOutPoint(&chainhash.Hash{0xaa, byte(value)}, 0), []byte{0x51})
	m.AddOutput(value, p2pkScript)

	tx, err := model.NewTx(m)
	require.NoError(t, err)

	return tx
}

func newSource(t require.TestingT, value model.Amount) StakeSource {
	return StakeSource{
		BlockTime: sourceTime,
		Tx:        newSourceTx(t, sourceTime, value),
		TxOffset:  81,
	}
}

func prevAt(height int32) *model.BlockIndex {
	return &model.BlockIndex{
		Hash:          &chainhash.Hash{0x01},
		Height:        height,
		Time:          sourceTime,
		StakeModifier: 0x1122334455667788,
	}
}

func TestCheckStakeKernelHash_RuleViolations(t *testing.T) {
	params := &chaincfg.RegressionNetParams
	source := newSource(t, 100*model.COIN)
	prevout := model.NewOutPoint(source.Tx.Hash(), 0)
	bits := model.NewNBitFromUint32(easyBits)

	t.Run("time before the staked tx", func(t *testing.T) {
		proof, ok, err := CheckStakeKernelHash(params, prevAt(10), bits, source, prevout, sourceTime-1)
		require.Error(t, err)
		assert.False(t, ok)
		assert.Nil(t, proof)
		assert.True(t, errors.Is(err, errors.ErrStakeTimestamp))
		assert.True(t, errors.IsValidationFailure(err))
	})

	t.Run("below the minimum age", func(t *testing.T) {
		txTime := uint32(sourceTime + params.StakeMinAgeSeconds() - 1)

		_, ok, err := CheckStakeKernelHash(params, prevAt(10), bits, source, prevout, txTime)
		require.Error(t, err)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, errors.ErrStakeMinAge))
	})

	t.Run("minimum age disabled", func(t *testing.T) {
		noMinAge, err := params.WithRegtestOverrides(chaincfg.WithStakeMinAgeDisabled())
		require.NoError(t, err)

		_, ok, err := CheckStakeKernelHash(noMinAge, prevAt(10), bits, source, prevout, sourceTime)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing output", func(t *testing.T) {
		bad := model.NewOutPoint(source.Tx.Hash(), 3)

		_, _, err := CheckStakeKernelHash(params, prevAt(10), bits, source, bad, sourceTime+7200)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrStakeKernelInvalid))
	})
}

func TestCheckStakeKernelHash_Causality(t *testing.T) {
	params := &chaincfg.RegressionNetParams
	source := newSource(t, 100*model.COIN)
	prevout := model.NewOutPoint(source.Tx.Hash(), 0)

	rapid.Check(t, func(t *rapid.T) {
		txTime := rapid.Uint32Range(0, sourceTime-1).Draw(t, "txTime")
		bits := model.NewNBitFromUint32(rapid.Uint32().Draw(t, "bits"))

		_, ok, err := CheckStakeKernelHash(params, prevAt(10), bits, source, prevout, txTime)
		if err == nil || ok {
			t.Fatalf("kernel at %d accepted before source time %d", txTime, sourceTime)
		}
	})
}

func TestCheckStakeKernelHash_ProtocolV2(t *testing.T) {
	params := &chaincfg.RegressionNetParams
	source := newSource(t, 100*model.COIN)
	prevout := model.NewOutPoint(source.Tx.Hash(), 0)
	txTime := uint32(sourceTime + 2*3600)

	t.Run("target is weighted by value", func(t *testing.T) {
		proof, ok, err := CheckStakeKernelHash(params, prevAt(10), model.NewNBitFromUint32(easyBits), source, prevout, txTime)
		require.NoError(t, err)
		require.True(t, ok, spew.Sdump(proof))

		expected := new(big.Int).Mul(model.CompactToBigMust(easyBits), big.NewInt(int64(100*model.COIN)))
		assert.Equal(t, 0, expected.Cmp(proof.Target))
		assert.True(t, proof.Met())
	})

	t.Run("timestamp low bits are masked", func(t *testing.T) {
		a, _, err := CheckStakeKernelHash(params, prevAt(10), model.NewNBitFromUint32(easyBits), source, prevout, txTime)
		require.NoError(t, err)

		b, _, err := CheckStakeKernelHash(params, prevAt(10), model.NewNBitFromUint32(easyBits), source, prevout, txTime|StakeTimestampMask)
		require.NoError(t, err)

		c, _, err := CheckStakeKernelHash(params, prevAt(10), model.NewNBitFromUint32(easyBits), source, prevout, txTime+StakeTimestampMask+1)
		require.NoError(t, err)

		assert.Equal(t, a.Hash, b.Hash)
		assert.NotEqual(t, a.Hash, c.Hash)
	})

	t.Run("the modifier changes the kernel", func(t *testing.T) {
		other := prevAt(10)
		other.StakeModifier++

		a, _, err := CheckStakeKernelHash(params, prevAt(10), model.NewNBitFromUint32(easyBits), source, prevout, txTime)
		require.NoError(t, err)

		b, _, err := CheckStakeKernelHash(params, other, model.NewNBitFromUint32(easyBits), source, prevout, txTime)
		require.NoError(t, err)

		assert.NotEqual(t, a.Hash, b.Hash)
	})

	t.Run("hard target is missed", func(t *testing.T) {
		proof, ok, err := CheckStakeKernelHash(params, prevAt(10), model.NewNBitFromUint32(hardBits), source, prevout, txTime)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NotNil(t, proof)
		assert.False(t, proof.Met())
	})

	t.Run("negative target is never met", func(t *testing.T) {
		proof, ok, err := CheckStakeKernelHash(params, prevAt(10), model.NewNBitFromUint32(0x20ffffff), source, prevout, txTime)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, -1, proof.Target.Sign())
	})
}

func TestCheckStakeKernelHash_ProtocolV1(t *testing.T) {
	params := &chaincfg.MainNetParams
	source := newSource(t, 100*model.COIN)
	prevout := model.NewOutPoint(source.Tx.Hash(), 0)

	// one day past the minimum age
	txTime := uint32(sourceTime + params.StakeMinAgeSeconds() + secondsPerDay)

	proof, ok, err := CheckStakeKernelHash(params, prevAt(100), model.NewNBitFromUint32(easyBits), source, prevout, txTime)
	require.NoError(t, err)
	require.True(t, ok, spew.Sdump(proof))

	// 100 coins held one day
	expected := new(big.Int).Mul(model.CompactToBigMust(easyBits), big.NewInt(100))
	assert.Equal(t, 0, expected.Cmp(proof.Target), spew.Sdump(proof))

	t.Run("exact timestamp is hashed", func(t *testing.T) {
		other, _, err := CheckStakeKernelHash(params, prevAt(100), model.NewNBitFromUint32(easyBits), source, prevout, txTime+1)
		require.NoError(t, err)
		assert.NotEqual(t, proof.Hash, other.Hash)
	})

	t.Run("tx offset is part of the kernel", func(t *testing.T) {
		moved := source
		moved.TxOffset++

		other, _, err := CheckStakeKernelHash(params, prevAt(100), model.NewNBitFromUint32(easyBits), moved, prevout, txTime)
		require.NoError(t, err)
		assert.NotEqual(t, proof.Hash, other.Hash)
	})

	t.Run("differs from protocol v2", func(t *testing.T) {
		v2, _, err := CheckStakeKernelHash(params, prevAt(params.ProtocolV2Height), model.NewNBitFromUint32(easyBits), source, prevout, txTime)
		require.NoError(t, err)
		assert.NotEqual(t, proof.Hash, v2.Hash)
		assert.Equal(t, 1, v2.Target.Cmp(proof.Target))
	})

	t.Run("too little age has no weight", func(t *testing.T) {
		young, ok, err := CheckStakeKernelHash(params, prevAt(100), model.NewNBitFromUint32(easyBits), source, prevout, uint32(sourceTime+params.StakeMinAgeSeconds()))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, young.Target.Sign())
	})
}

func TestGetWeight(t *testing.T) {
	params := chaincfg.MainNetParams

	assert.Equal(t, int64(3600), GetWeight(&params, 0, 5*3600))
	assert.Equal(t, int64(-3600), GetWeight(&params, 0, 3*3600))

	params.StakeMaxAge = 8 * time.Hour
	assert.Equal(t, int64(4*3600), GetWeight(&params, 0, 10*3600))
}

func TestCheckCoinStakeTimestamp(t *testing.T) {
	regtest := &chaincfg.RegressionNetParams
	main := &chaincfg.MainNetParams

	assert.True(t, CheckCoinStakeTimestamp(regtest, 1, 160, 160))
	assert.False(t, CheckCoinStakeTimestamp(regtest, 1, 161, 161))
	assert.False(t, CheckCoinStakeTimestamp(regtest, 1, 160, 176))

	assert.True(t, CheckCoinStakeTimestamp(main, 100, 161, 161))
	assert.False(t, CheckCoinStakeTimestamp(main, 100, 161, 162))
	assert.False(t, CheckCoinStakeTimestamp(main, main.ProtocolV2Height+1, 161, 161))
}
