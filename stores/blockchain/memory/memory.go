package memory

import (
	"context"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
	"github.com/clamcoin/clamnode/services/blockchain/work"
	"github.com/clamcoin/clamnode/ulogger"
)

// Memory keeps the block index tree in memory.  The best chain is the one
// with the most cumulative trust, ties keep the first seen tip.
type Memory struct {
	logger ulogger.Logger
	mu     sync.RWMutex
	index  map[chainhash.Hash]*model.BlockIndex

	// bestChain[h] is the node at height h on the best chain
	bestChain []*model.BlockIndex
}

// New creates a store seeded with the genesis block of params.
func New(logger ulogger.Logger, params *chaincfg.Params) (*Memory, error) {
	if params == nil || params.GenesisBlock == nil {
		return nil, errors.NewConfigurationError("no genesis block in chain params")
	}

	genesis := model.NewBlockIndex(params.GenesisBlock.Header, nil, false)
	genesis.ChainTrust = work.CalculateChainTrust(nil, genesis.Bits)

	m := &Memory{
		logger:    logger,
		index:     map[chainhash.Hash]*model.BlockIndex{*genesis.Hash: genesis},
		bestChain: []*model.BlockIndex{genesis},
	}

	return m, nil
}

func (m *Memory) GetBlockIndex(_ context.Context, blockHash *chainhash.Hash) (*model.BlockIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.index[*blockHash]
	if !ok {
		return nil, errors.NewBlockNotFoundError("block %s not found", blockHash)
	}

	return node, nil
}

func (m *Memory) GetBlockIndexByHeight(_ context.Context, height uint32) (*model.BlockIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if uint64(height) >= uint64(len(m.bestChain)) {
		return nil, errors.NewBlockNotFoundError("no block at height %d, best height is %d", height, len(m.bestChain)-1)
	}

	return m.bestChain[height], nil
}

func (m *Memory) GetBestBlockIndex(_ context.Context) (*model.BlockIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.bestChain[len(m.bestChain)-1], nil
}

func (m *Memory) AddBlockIndex(_ context.Context, header *model.BlockHeader, isProofOfStake bool, stakeModifier uint64) (*model.BlockIndex, error) {
	hash := header.Hash()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.index[*hash]; ok {
		return nil, errors.NewBlockExistsError("block %s already exists", hash)
	}

	prev, ok := m.index[*header.HashPrevBlock]
	if !ok {
		return nil, errors.NewBlockNotFoundError("parent %s of block %s not found", header.HashPrevBlock, hash)
	}

	node := model.NewBlockIndex(header, prev, isProofOfStake)
	node.StakeModifier = stakeModifier
	node.ChainTrust = work.CalculateChainTrust(prev.ChainTrust, node.Bits)

	m.index[*hash] = node

	best := m.bestChain[len(m.bestChain)-1]
	if node.ChainTrust.Cmp(best.ChainTrust) > 0 {
		m.setBestChain(node)
		m.logger.Debugf("[Memory] new best block %s at height %d", hash, node.Height)
	}

	return node, nil
}

// setBestChain rewrites bestChain from tip back to the fork point.
func (m *Memory) setBestChain(tip *model.BlockIndex) {
	height := int(tip.Height)

	if height >= len(m.bestChain) {
		m.bestChain = append(m.bestChain, make([]*model.BlockIndex, height+1-len(m.bestChain))...)
	} else {
		m.bestChain = m.bestChain[:height+1]
	}

	for n := tip; n != nil; n = n.Prev {
		if m.bestChain[n.Height] == n {
			break
		}

		m.bestChain[n.Height] = n
	}
}
