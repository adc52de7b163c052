package memory

import (
	"context"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/clamcoin/clamnode/stores/txmeta"
	"github.com/clamcoin/clamnode/ulogger"
)

type Memory struct {
	logger ulogger.Logger
	mu     sync.RWMutex
	txs    map[chainhash.Hash]txmeta.Data
}

func New(logger ulogger.Logger) *Memory {
	return &Memory{
		logger: logger,
		txs:    make(map[chainhash.Hash]txmeta.Data),
	}
}

func (m *Memory) Get(_ context.Context, hash *chainhash.Hash) (*txmeta.Data, error) {
	m.mu.RLock()
	data, ok := m.txs[*hash]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.NewTxNotFoundError("tx %s not found", hash)
	}

	return &data, nil
}

func (m *Memory) Set(_ context.Context, tx *model.Tx, blockHeight uint32, txOffset uint32) (*txmeta.Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := txmeta.Data{
		Tx:          tx,
		BlockHeight: blockHeight,
		TxOffset:    txOffset,
	}

	if _, ok := m.txs[*tx.Hash()]; ok {
		return &data, errors.NewTxAlreadyExistsError("tx %s already exists", tx.Hash())
	}

	m.txs[*tx.Hash()] = data

	m.logger.Debugf("[Memory] stored tx %s at height %d offset %d", tx.Hash(), blockHeight, txOffset)

	return &data, nil
}

func (m *Memory) Delete(_ context.Context, hash *chainhash.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.txs, *hash)

	return nil
}
