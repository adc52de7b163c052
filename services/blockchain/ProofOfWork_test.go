package blockchain

import (
	"math/big"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func bigToHash(n *big.Int) *chainhash.Hash {
	var buf [chainhash.HashSize]byte

	n.FillBytes(buf[:])

	var hash chainhash.Hash
	copy(hash[:], bt.ReverseBytes(buf[:]))

	return &hash
}

func TestCheckProofOfWork(t *testing.T) {
	main := &chaincfg.MainNetParams
	limitBits := model.NewNBitFromUint32(main.PowLimitBits)
	target := limitBits.CalculateTarget()

	t.Run("hash at the target", func(t *testing.T) {
		assert.True(t, CheckProofOfWork(bigToHash(target), limitBits, main, false))
		assert.True(t, CheckProofOfWork(&chainhash.Hash{}, limitBits, main, false))
	})

	t.Run("hash above the target", func(t *testing.T) {
		above := new(big.Int).Add(target, big.NewInt(1))
		assert.False(t, CheckProofOfWork(bigToHash(above), limitBits, main, false))
	})

	t.Run("bad encodings", func(t *testing.T) {
		for _, bits := range []uint32{0, 0x1e8fffff, 0xff123456, 0x01810000} {
			assert.False(t, CheckProofOfWork(&chainhash.Hash{}, model.NewNBitFromUint32(bits), main, false), "bits %08x", bits)
		}
	})

	t.Run("limit depends on the proof type", func(t *testing.T) {
		easy := model.NewNBitFromUint32(0x1f00ffff)

		assert.False(t, CheckProofOfWork(&chainhash.Hash{}, easy, main, false))
		assert.True(t, CheckProofOfWork(&chainhash.Hash{}, easy, &chaincfg.TestNetParams, false))
		assert.False(t, CheckProofOfWork(&chainhash.Hash{}, easy, &chaincfg.TestNetParams, true))
	})

	t.Run("genesis blocks", func(t *testing.T) {
		for _, params := range allParams {
			header := params.GenesisBlock.Header
			assert.True(t, CheckProofOfWork(header.PoWHash(), header.Bits, params, false), params.Name)
		}
	})
}

func TestCheckProofOfWork_Properties(t *testing.T) {
	params := &chaincfg.MainNetParams

	rapid.Check(t, func(t *rapid.T) {
		var raw [chainhash.HashSize]byte
		for i := range raw {
			raw[i] = rapid.Byte().Draw(t, "hashByte")
		}

		hash := chainhash.Hash(raw)
		bits := model.NewNBitFromUint32(rapid.Uint32().Draw(t, "bits"))

		target, negative, overflow := bits.Decode()
		valid := !negative && !overflow && target.Sign() > 0 && target.Cmp(params.PowLimit) <= 0

		expected := valid && HashToBig(&hash).Cmp(target) <= 0
		if got := CheckProofOfWork(&hash, bits, params, false); got != expected {
			t.Fatalf("CheckProofOfWork(%s, %s) = %t, expected %t", hash, bits, got, expected)
		}

		if (negative || overflow) && CheckProofOfWork(&chainhash.Hash{}, bits, params, false) {
			t.Fatalf("accepted invalid encoding %s", bits)
		}
	})
}

func TestCheckBlockProofOfWork(t *testing.T) {
	params := &chaincfg.MainNetParams

	require.NoError(t, CheckBlockProofOfWork(params.GenesisBlock, params))

	header := params.GenesisBlock.Header.Clone()
	header.Nonce++

	bad, err := model.NewBlock(header, params.GenesisBlock.Transactions)
	require.NoError(t, err)

	err = CheckBlockProofOfWork(bad, params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBlockBadPoW))

	// proof of stake blocks carry no work
	stakeHeader := header.Clone()
	stakeHeader.Format = model.HeaderFormatCurrent
	stakeHeader.PrevoutStake = model.NewOutPoint(params.GenesisHash, 0)

	staked, err := model.NewBlock(stakeHeader, params.GenesisBlock.Transactions)
	require.NoError(t, err)
	require.True(t, staked.IsProofOfStake())
	assert.NoError(t, CheckBlockProofOfWork(staked, params))
}

func TestCheckCheckpoint(t *testing.T) {
	params := &chaincfg.MainNetParams
	checkpoint := params.Checkpoints[0]

	assert.NoError(t, CheckCheckpoint(checkpoint.Height, checkpoint.Hash, params))
	assert.NoError(t, CheckCheckpoint(checkpoint.Height+1, &chainhash.Hash{}, params))

	err := CheckCheckpoint(checkpoint.Height, &chainhash.Hash{}, params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCheckpointMismatch))
	assert.True(t, errors.IsValidationFailure(err))
}
