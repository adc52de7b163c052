package factory

import (
	"net/url"
	"path/filepath"

	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/settings"
	"github.com/clamcoin/clamnode/stores/txmeta"
	"github.com/clamcoin/clamnode/stores/txmeta/badger"
	"github.com/clamcoin/clamnode/stores/txmeta/memory"
	"github.com/clamcoin/clamnode/ulogger"
)

type storeFactory func(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (txmeta.Store, error)

var availableDatabases = map[string]storeFactory{
	"memory": func(logger ulogger.Logger, _ *url.URL, _ *settings.Settings) (txmeta.Store, error) {
		return memory.New(logger), nil
	},
	"badger": func(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (txmeta.Store, error) {
		dir := filepath.Join(storeURL.Host, storeURL.Path)
		if dir == "" && !tSettings.TxMetaStore.BadgerInMemory {
			dir = filepath.Join(tSettings.DataFolder, "txmeta")
		}

		return badger.New(logger, dir, tSettings.TxMetaStore.BadgerInMemory)
	},
}

// New creates the txmeta store configured by txmeta_store.
func New(logger ulogger.Logger, tSettings *settings.Settings) (txmeta.Store, error) {
	storeURL := tSettings.TxMetaStore.StoreURL
	if storeURL == nil {
		return nil, errors.NewConfigurationError("no txmeta store configured")
	}

	factory, ok := availableDatabases[storeURL.Scheme]
	if !ok {
		return nil, errors.NewStorageError("unknown scheme: %s", storeURL.Scheme)
	}

	logger.Infof("[TxMeta] creating %s store", storeURL.Scheme)

	return factory(logger, storeURL, tSettings)
}
