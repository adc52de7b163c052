package factory

import (
	"context"
	"net/url"
	"testing"

	"github.com/clamcoin/clamnode/settings"
	"github.com/clamcoin/clamnode/stores/txmeta/badger"
	"github.com/clamcoin/clamnode/stores/txmeta/memory"
	"github.com/clamcoin/clamnode/stores/txmeta/tests"
	"github.com/clamcoin/clamnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		tSettings := &settings.Settings{}
		tSettings.TxMetaStore.StoreURL = &url.URL{Scheme: "memory"}

		store, err := New(ulogger.TestLogger{}, tSettings)
		require.NoError(t, err)
		assert.IsType(t, &memory.Memory{}, store)
	})

	t.Run("badger in memory", func(t *testing.T) {
		tSettings := &settings.Settings{}
		tSettings.TxMetaStore.StoreURL = &url.URL{Scheme: "badger"}
		tSettings.TxMetaStore.BadgerInMemory = true

		store, err := New(ulogger.TestLogger{}, tSettings)
		require.NoError(t, err)
		require.IsType(t, &badger.Badger{}, store)

		defer func() {
			_ = store.(*badger.Badger).Close()
		}()

		_, err = store.Set(context.Background(), tests.Tx1, 0, 81)
		require.NoError(t, err)
	})

	t.Run("badger on disk", func(t *testing.T) {
		storeURL, err := url.Parse("badger://" + t.TempDir())
		require.NoError(t, err)

		tSettings := &settings.Settings{}
		tSettings.TxMetaStore.StoreURL = storeURL

		store, err := New(ulogger.TestLogger{}, tSettings)
		require.NoError(t, err)

		require.NoError(t, store.(*badger.Badger).Close())
	})

	t.Run("unknown scheme", func(t *testing.T) {
		tSettings := &settings.Settings{}
		tSettings.TxMetaStore.StoreURL = &url.URL{Scheme: "aerospike"}

		_, err := New(ulogger.TestLogger{}, tSettings)
		require.Error(t, err)
	})

	t.Run("no url", func(t *testing.T) {
		_, err := New(ulogger.TestLogger{}, &settings.Settings{})
		require.Error(t, err)
	})
}
