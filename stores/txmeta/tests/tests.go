package tests

import (
	"context"
	"sync"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/clamcoin/clamnode/stores/txmeta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tx1 is the genesis coinbase, Tx2 a coinstake spending it.
var (
	Tx1, _ = model.NewTxFromString("01000000f6584c53010000000000000000000000000000000000000000000000000000000000000000ffffffff4100012a3d31342f4170722f32303134204e6f2063686f7764657220666f7220796f752c20636175736520636c616d732068617665206665656c696e677320746f6fffffffff0100000000000000000000000000")
	Tx2, _ = model.NewTxFromString("02000000004e72530196ff1913bb893b918e53fa3dfe3ab4e9cb6a6c48b0bdb8eba6e453fd2ab310ef000000000151ffffffff0200000000000000000000e40b54020000000151000000000b68656c6c6f20636c616d73")
)

func Store(t *testing.T, db txmeta.Store) {
	ctx := context.Background()

	t.Run("simple smoke test", func(t *testing.T) {
		_ = db.Delete(ctx, Tx1.Hash())

		_, err := db.Set(ctx, Tx1, 0, 81)
		require.NoError(t, err)

		resp, err := db.Get(ctx, Tx1.Hash())
		require.NoError(t, err)
		assert.Equal(t, uint32(0), resp.BlockHeight)
		assert.Equal(t, uint32(81), resp.TxOffset)
		assert.Equal(t, Tx1.Hash(), resp.Tx.Hash())
		assert.Equal(t, Tx1.Time(), resp.Tx.Time())

		_, err = db.Set(ctx, Tx1, 0, 81)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxAlreadyExists))
	})

	t.Run("speech survives", func(t *testing.T) {
		_ = db.Delete(ctx, Tx2.Hash())

		_, err := db.Set(ctx, Tx2, 12345, 210)
		require.NoError(t, err)

		resp, err := db.Get(ctx, Tx2.Hash())
		require.NoError(t, err)
		assert.Equal(t, uint32(12345), resp.BlockHeight)
		assert.Equal(t, "hello clams", resp.Tx.Speech())
		assert.True(t, resp.Tx.IsCoinStake())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := db.Get(ctx, &chainhash.Hash{0xde, 0xad})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxNotFound))
		assert.True(t, errors.IsCouldNotVerify(err))
	})

	t.Run("delete", func(t *testing.T) {
		_, _ = db.Set(ctx, Tx1, 0, 81)

		require.NoError(t, db.Delete(ctx, Tx1.Hash()))

		_, err := db.Get(ctx, Tx1.Hash())
		require.Error(t, err)

		// deleting twice is fine
		require.NoError(t, db.Delete(ctx, Tx1.Hash()))
	})
}

// Sanity stores and reads many transactions concurrently.
func Sanity(t *testing.T, db txmeta.Store) {
	ctx := context.Background()

	const n = 100

	txs := make([]*model.Tx, n)

	for i := range txs {
		m := NewTestTx(uint32(1400000000 + i))

		tx, err := model.NewTx(m)
		require.NoError(t, err)

		txs[i] = tx
	}

	var wg sync.WaitGroup

	for i, tx := range txs {
		wg.Add(1)

		go func(i int, tx *model.Tx) {
			defer wg.Done()

			_, err := db.Set(ctx, tx, uint32(i), 81)
			assert.NoError(t, err)
		}(i, tx)
	}

	wg.Wait()

	for i, tx := range txs {
		resp, err := db.Get(ctx, tx.Hash())
		require.NoError(t, err)
		require.Equal(t, uint32(i), resp.BlockHeight)
	}
}

func Benchmark(b *testing.B, db txmeta.Store) {
	ctx := context.Background()

	_ = db.Delete(ctx, Tx2.Hash())
	_, err := db.Set(ctx, Tx2, 1, 81)
	require.NoError(b, err)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err = db.Get(ctx, Tx2.Hash()); err != nil {
			b.Fatal(err)
		}
	}
}

// NewTestTx returns a one input, two output builder with the given time.
func NewTestTx(txTime uint32) *model.MutableTx {
	m := model.NewMutableTx()
	m.Time = txTime
	m.AddInput(model.NewOutPoint(Tx1.Hash(), 0), []byte{0x51})
	m.AddOutput(model.COIN, []byte{0x51})

	return m
}
