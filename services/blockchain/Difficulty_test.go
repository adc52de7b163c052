package blockchain

import (
	"context"
	"math/big"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/clamcoin/clamnode/stores/blockchain/memory"
	"github.com/clamcoin/clamnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var allParams = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNetParams,
	&chaincfg.RegressionNetParams,
}

func TestRetargetEraFor(t *testing.T) {
	main := &chaincfg.MainNetParams

	tests := []struct {
		height int32
		params *chaincfg.Params
		want   RetargetEra
	}{
		{0, main, RetargetV1},
		{9999, main, RetargetV1},
		{10000, main, RetargetV2},
		{203500, main, RetargetV2},
		{203501, main, RetargetV3},
		{0, &chaincfg.TestNetParams, RetargetV3},
		{0, &chaincfg.RegressionNetParams, RetargetV3},
	}

	for _, tt := range tests {
		t.Run(tt.params.Name+"/"+tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, RetargetEraFor(&model.BlockIndex{Height: tt.height}, tt.params))
		})
	}

	assert.Equal(t, RetargetV3, RetargetEraFor(nil, main))
	assert.Equal(t, "unknown", RetargetEra(0).String())
}

func TestGetNextWorkRequired_NoPreviousBlock(t *testing.T) {
	for _, params := range allParams {
		t.Run(params.Name, func(t *testing.T) {
			assert.Equal(t, params.PowLimitBits, GetNextWorkRequired(nil, params, false).ToUint32())
			assert.Equal(t, params.PowLimitBits, GetNextWorkRequired(nil, params, true).ToUint32())
		})
	}
}

func TestGetNextTargetRequiredV1(t *testing.T) {
	params := &chaincfg.MainNetParams

	t.Run("on schedule blocks keep the target", func(t *testing.T) {
		last := buildChain(1, 0x1e0fffff, 5, repeat(5, false)...)

		assert.Equal(t, uint32(0x1e0fffff), GetNextTargetRequiredV1(last, params, false).ToUint32())
		assert.Equal(t, uint32(0x1e0fffff), GetNextWorkRequired(last, params, false).ToUint32())
	})

	t.Run("genesis and first block get the limit", func(t *testing.T) {
		genesis := buildChain(1, 0x1d00ffff, 5)
		one := buildChain(1, 0x1d00ffff, 5, false)
		two := buildChain(1, 0x1d00ffff, 5, false, false)

		assert.Equal(t, params.PowLimitBits, GetNextTargetRequiredV1(genesis, params, false).ToUint32())
		assert.Equal(t, params.PowLimitBits, GetNextTargetRequiredV1(one, params, false).ToUint32())
		assert.Equal(t, uint32(0x1d00ffff), GetNextTargetRequiredV1(two, params, false).ToUint32())
	})

	t.Run("fast blocks lower the target", func(t *testing.T) {
		last := buildChain(1, 0x1d0fffff, 1, repeat(5, false)...)
		next := GetNextTargetRequiredV1(last, params, false)

		assert.Equal(t, -1, next.CalculateTarget().Cmp(last.Bits.CalculateTarget()))
	})

	t.Run("slow blocks raise the target up to the limit", func(t *testing.T) {
		last := buildChain(1, 0x1d0fffff, 10, repeat(5, false)...)
		next := GetNextTargetRequiredV1(last, params, false)
		assert.Equal(t, 1, next.CalculateTarget().Cmp(last.Bits.CalculateTarget()))

		atLimit := buildChain(1, 0x1e0fffff, 600, repeat(5, false)...)
		assert.Equal(t, params.PowLimitBits, GetNextTargetRequiredV1(atLimit, params, false).ToUint32())
	})

	t.Run("negative spacing is replaced by the target spacing", func(t *testing.T) {
		last := buildChain(1, 0x1d0fffff, 5, repeat(5, false)...)
		last.Time = last.Prev.Time - 100

		assert.Equal(t, uint32(0x1d0fffff), GetNextTargetRequiredV1(last, params, false).ToUint32())
	})

	t.Run("other proof type blocks are skipped", func(t *testing.T) {
		last := buildChain(1, 0x1e0fffff, 5, false, true, false, true, false, true)

		// same type blocks are 10 seconds apart, twice the spacing
		next := GetNextTargetRequiredV1(last, params, false)
		assert.Equal(t, params.PowLimitBits, next.ToUint32())
	})
}

func TestGetNextTargetRequiredV2(t *testing.T) {
	params := &chaincfg.MainNetParams

	last := buildChain(10001, 0x1d0fffff, 60, repeat(4, true)...)
	assert.Equal(t, RetargetV2, RetargetEraFor(last, params))

	assert.Equal(t, uint32(0x1d0fffff), GetNextTargetRequiredV2(last, params, true).ToUint32())
	assert.Equal(t, uint32(0x1d0fffff), GetNextWorkRequired(last, params, true).ToUint32())

	// no proof of work blocks past genesis
	assert.Equal(t, params.PowLimitBits, GetNextTargetRequiredV2(last, params, false).ToUint32())
}

func TestGetNextTargetRequiredV3(t *testing.T) {
	params := &chaincfg.TestNetParams

	t.Run("full window on schedule keeps the target", func(t *testing.T) {
		last := buildChain(1, 0x1d0fffff, 60, repeat(100, true)...)

		assert.Equal(t, uint32(0x1d0fffff), GetNextTargetRequiredV3(last, params, true).ToUint32())
		assert.Equal(t, uint32(0x1d0fffff), GetNextWorkRequired(last, params, true).ToUint32())
	})

	t.Run("short history gets the limit", func(t *testing.T) {
		for n := 0; n < 3; n++ {
			last := buildChain(1, 0x1d0fffff, 60, repeat(n, true)...)
			assert.Equal(t, params.PosLimitBits, GetNextTargetRequiredV3(last, params, true).ToUint32(), "blocks=%d", n)
		}

		assert.Equal(t, params.PowLimitBits, GetNextTargetRequiredV3(nil, params, false).ToUint32())
	})

	t.Run("three blocks give a first estimate", func(t *testing.T) {
		last := buildChain(1, 0x1d0fffff, 60, repeat(3, true)...)
		next := GetNextTargetRequiredV3(last, params, true)

		assert.NotEqual(t, params.PosLimitBits, next.ToUint32())
		assert.Equal(t, 1, next.CalculateTarget().Cmp(last.Bits.CalculateTarget()))
	})

	t.Run("uses the limit of the proof type", func(t *testing.T) {
		last := buildChain(1, 0x1f00ffff, 6000, repeat(100, false)...)

		assert.Equal(t, params.PowLimitBits, GetNextTargetRequiredV3(last, params, false).ToUint32())
	})

	t.Run("main network after protocol v2", func(t *testing.T) {
		last := buildChain(203501, 0x1d0fffff, 60, repeat(100, true)...)

		assert.Equal(t, RetargetV3, RetargetEraFor(last, &chaincfg.MainNetParams))
		assert.Equal(t, uint32(0x1d0fffff), GetNextWorkRequired(last, &chaincfg.MainNetParams, true).ToUint32())
	})
}

func TestRetarget_WrapsAt256Bits(t *testing.T) {
	prevBits := model.NewNBitFromUint32(0x2100ffff)
	prev := prevBits.CalculateTarget()

	product := new(big.Int).Mul(prev, big.NewInt(965))
	product.And(product, uint256Mask)

	expected := product.Quo(product, big.NewInt(965))

	next := retarget(prevBits, uint256Mask, 192, 5, 5)
	assert.Equal(t, model.BigToCompact(expected), next.ToUint32())
	assert.Equal(t, -1, next.CalculateTarget().Cmp(prev))
}

func TestGetNextWorkRequired_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		params := rapid.SampledFrom(allParams).Draw(t, "params")
		firstHeight := rapid.SampledFrom([]int32{1, 9990, 10001, 203495, 300000}).Draw(t, "firstHeight")
		isPoS := rapid.Bool().Draw(t, "isPoS")
		n := rapid.IntRange(0, 80).Draw(t, "blocks")

		tip := &model.BlockIndex{
			Hash: &chainhash.Hash{},
			Time: 1397512438,
			Bits: model.NewNBitFromUint32(params.PowLimitBits),
		}

		for i := 0; i < n; i++ {
			tip = &model.BlockIndex{
				Hash:         &chainhash.Hash{byte(i + 1)},
				Prev:         tip,
				Height:       firstHeight + int32(i),
				Time:         uint32(int64(tip.Time) + rapid.Int64Range(-120, 600).Draw(t, "spacing")),
				Bits:         model.NewNBitFromUint32(rapid.Uint32().Draw(t, "bits")),
				ProofOfStake: rapid.Bool().Draw(t, "pos"),
			}
		}

		next := GetNextWorkRequired(tip, params, isPoS)

		target, negative, overflow := next.Decode()
		if negative || overflow {
			t.Fatalf("next target %s is not a valid encoding", next)
		}

		if target.Sign() <= 0 {
			t.Fatalf("next target %s is not positive", next)
		}

		limit := targetLimit(params, isPoS)
		if RetargetEraFor(tip, params) == RetargetV1 {
			limit = params.PowLimit
		}

		if target.Cmp(limit) > 0 {
			t.Fatalf("next target %s exceeds the limit", next)
		}

		if again := GetNextWorkRequired(tip, params, isPoS); again != next {
			t.Fatalf("retarget is not deterministic: %s then %s", next, again)
		}
	})
}

func TestDifficulty(t *testing.T) {
	ctx := context.Background()
	params := &chaincfg.MainNetParams

	store, err := memory.New(ulogger.TestLogger{}, params)
	require.NoError(t, err)

	d, err := NewDifficulty(store, ulogger.TestLogger{}, params)
	require.NoError(t, err)

	t.Run("next work on top of genesis", func(t *testing.T) {
		nBits, err := d.CalcNextWorkRequired(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, params.PowLimitBits, nBits.ToUint32())

		// cached answer for the same tip
		again, err := d.CalcNextWorkRequired(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, nBits, again)
	})

	t.Run("validate block difficulty", func(t *testing.T) {
		header := &model.BlockHeader{
			Version:        7,
			HashPrevBlock:  params.GenesisHash,
			HashMerkleRoot: &chainhash.Hash{},
			Timestamp:      params.GenesisBlock.Header.Timestamp + 5,
			Bits:           model.NewNBitFromUint32(params.PowLimitBits),
			PrevoutStake:   model.NullOutPoint(),
		}

		require.NoError(t, d.ValidateBlockDifficulty(ctx, header, false))

		header.Bits = model.NewNBitFromUint32(0x1d00ffff)
		err := d.ValidateBlockDifficulty(ctx, header, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrBlockInvalid))

		header.HashPrevBlock = &chainhash.Hash{1}
		err = d.ValidateBlockDifficulty(ctx, header, false)
		require.Error(t, err)
		assert.True(t, errors.IsCouldNotVerify(err))
	})

	t.Run("requires params", func(t *testing.T) {
		_, err := NewDifficulty(store, ulogger.TestLogger{}, nil)
		require.Error(t, err)
	})
}
