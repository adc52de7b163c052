package badger

import (
	"context"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/clamcoin/clamnode/stores/txmeta"
	"github.com/clamcoin/clamnode/ulogger"
	"github.com/dgraph-io/badger/v4"
	"github.com/ordishs/gocore"
)

var stat = gocore.NewStat("store_badger_txmeta", true)

// loggerWrapper adapts ulogger to the badger.Logger interface.
type loggerWrapper struct {
	ulogger.Logger
}

func (l loggerWrapper) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

type Badger struct {
	mu     sync.Mutex
	store  *badger.DB
	logger ulogger.Logger
}

// New opens a badger backed store in dir.  With inMemory set nothing is
// written to disk and dir is ignored.
func New(logger ulogger.Logger, dir string, inMemory bool) (*Badger, error) {
	logger = logger.New("bdgr")

	if inMemory {
		dir = ""
	}

	opts := badger.DefaultOptions(dir).
		WithInMemory(inMemory).
		WithLogger(loggerWrapper{logger}).
		WithLoggingLevel(badger.ERROR).
		WithMetricsEnabled(false)

	s, err := badger.Open(opts)
	if err != nil {
		return nil, errors.NewStorageUnavailableError("failed to open badger store at %q", dir, err)
	}

	return &Badger{
		store:  s,
		logger: logger,
	}, nil
}

func (b *Badger) Get(_ context.Context, hash *chainhash.Hash) (*txmeta.Data, error) {
	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("Get", true).AddTime(start)
	}()

	var result []byte

	err := b.store.View(func(tx *badger.Txn) error {
		item, err := tx.Get(hash[:])
		if err != nil {
			return err
		}

		result, err = item.ValueCopy(nil)

		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, errors.NewTxNotFoundError("tx %s not found", hash)
		}

		return nil, errors.NewStorageError("failed to read tx %s", hash, err)
	}

	return txmeta.NewDataFromBytes(result)
}

func (b *Badger) Set(_ context.Context, tx *model.Tx, blockHeight uint32, txOffset uint32) (*txmeta.Data, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := gocore.CurrentTime()
	defer func() {
		stat.NewStat("Set", true).AddTime(start)
	}()

	data := &txmeta.Data{
		Tx:          tx,
		BlockHeight: blockHeight,
		TxOffset:    txOffset,
	}

	key := tx.Hash().CloneBytes()

	err := b.store.Update(func(badgerTx *badger.Txn) error {
		if _, err := badgerTx.Get(key); err == nil {
			return errors.NewTxAlreadyExistsError("tx %s already exists", tx.Hash())
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return badgerTx.SetEntry(badger.NewEntry(key, data.Bytes()))
	})
	if err != nil {
		if errors.Is(err, errors.ErrTxAlreadyExists) {
			return data, err
		}

		return nil, errors.NewStorageError("failed to set tx %s", tx.Hash(), err)
	}

	return data, nil
}

func (b *Badger) Delete(_ context.Context, hash *chainhash.Hash) error {
	err := b.store.Update(func(tx *badger.Txn) error {
		return tx.Delete(hash[:])
	})
	if err != nil {
		return errors.NewStorageError("failed to delete tx %s", hash, err)
	}

	return nil
}

func (b *Badger) Close() error {
	return b.store.Close()
}
