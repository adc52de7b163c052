package blockchain

import (
	"net/url"

	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/stores/blockchain/memory"
	"github.com/clamcoin/clamnode/ulogger"
)

func NewStore(logger ulogger.Logger, storeURL *url.URL, params *chaincfg.Params) (Store, error) {
	switch storeURL.Scheme {
	case "memory":
		return memory.New(logger, params)
	}

	return nil, errors.NewStorageError("unknown scheme: %s", storeURL.Scheme)
}
