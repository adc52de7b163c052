package chaincfg

import (
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/model"
)

const (
	genesisTimestamp  = "14/Apr/2014 No chowder for you, cause clams have feelings too"
	genesisTime       = 1397512438
	genesisMerkleRoot = "ef10b32afd53e4a6ebb8bdb0486c6acbe9b43afe3dfa538e913b89bb1319ff96"
	testGenesisHash   = "00001924120e93f445dd4adb9d90e0020350b8c6c2b08e1a4950372a37f8bcc8"
)

var (
	// mainGenesisBlock defines the genesis block of the block chain which
	// serves as the public transaction ledger for the main network.
	mainGenesisBlock = createGenesisBlock(genesisTime, 2054231, 0x1e0fffff, 1)

	// testGenesisBlock is shared by the test and regression test networks.
	testGenesisBlock = createGenesisBlock(genesisTime, 15165, 0x1f00ffff, 1)
)

// genesisCoinbaseScript pushes 0, the number 42 and the timestamp message.
func genesisCoinbaseScript() []byte {
	script := []byte{bscript.Op0, bscript.OpDATA1, 42, byte(len(genesisTimestamp))}

	return append(script, genesisTimestamp...)
}

// createGenesisBlock builds the genesis block. The output of its coinbase
// cannot be spent since it did not originally exist in the database.
func createGenesisBlock(timestamp, nonce, bits uint32, version int32) *model.Block {
	m := model.NewMutableTx()
	m.Version = 1
	m.Time = timestamp
	m.AddInput(model.NullOutPoint(), genesisCoinbaseScript())
	m.AddOutput(0, nil)

	coinbase, err := model.NewTx(m)
	if err != nil {
		panic(err)
	}

	merkleRoot := model.BuildMerkleRoot([]chainhash.Hash{*coinbase.Hash()})

	header := &model.BlockHeader{
		Format:         model.HeaderFormatLegacy,
		Version:        version,
		HashPrevBlock:  &chainhash.Hash{},
		HashMerkleRoot: &merkleRoot,
		Timestamp:      timestamp,
		Bits:           model.NewNBitFromUint32(bits),
		Nonce:          nonce,
		PrevoutStake:   model.NullOutPoint(),
	}

	block, err := model.NewBlock(header, []*model.Tx{coinbase})
	if err != nil {
		panic(err)
	}

	return block
}
