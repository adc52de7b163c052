package model

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"math"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/go-wire"
	"github.com/clamcoin/clamnode/errors"
	"go.uber.org/atomic"
)

const maxBlockTxCount = 1_000_000

type Block struct {
	Header       *BlockHeader
	Transactions []*Tx

	// local
	hash    *chainhash.Hash
	checked atomic.Bool
}

// NewBlock assembles a block. The header is cloned and the hash computed once.
func NewBlock(header *BlockHeader, txs []*Tx) (*Block, error) {
	if header == nil {
		return nil, errors.NewInvalidArgumentError("nil block header")
	}

	for i, tx := range txs {
		if tx == nil {
			return nil, errors.NewInvalidArgumentError("nil transaction at index %d", i)
		}
	}

	b := &Block{
		Header:       header.Clone(),
		Transactions: append([]*Tx(nil), txs...),
	}
	b.hash = b.Header.Hash()

	return b, nil
}

// NewBlockFromBytes parses a block serialized in the given format.
func NewBlockFromBytes(blockBytes []byte, format HeaderFormat) (*Block, error) {
	r := bytes.NewReader(blockBytes)

	block, err := NewBlockFromReader(r, format)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, errors.NewBlockInvalidError("%d trailing bytes after block", r.Len())
	}

	return block, nil
}

func NewBlockFromString(blockHex string, format HeaderFormat) (*Block, error) {
	b, err := hex.DecodeString(blockHex)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("error decoding block hex", err)
	}

	return NewBlockFromBytes(b, format)
}

func NewBlockFromReader(r io.Reader, format HeaderFormat) (*Block, error) {
	header, err := NewBlockHeaderFromReader(r, format)
	if err != nil {
		return nil, err
	}

	txCount, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewBlockInvalidError("error reading transaction count", err)
	}

	if txCount > maxBlockTxCount {
		return nil, errors.NewBlockInvalidError("too many transactions: %d", txCount)
	}

	txs := make([]*Tx, txCount)
	for i := range txs {
		if txs[i], err = NewTxFromReader(r); err != nil {
			return nil, errors.NewBlockInvalidError("error reading transaction %d", i, err)
		}
	}

	if format == HeaderFormatLegacy {
		if header.Signature, err = wire.ReadVarBytes(r, 0, maxSignatureSize, "block signature"); err != nil {
			return nil, errors.NewBlockInvalidError("error reading block signature", err)
		}
	}

	return NewBlock(header, txs)
}

func (b *Block) Hash() *chainhash.Hash {
	h := *b.hash
	return &h
}

func (b *Block) String() string {
	return b.hash.String()
}

// IsProofOfStake applies the rule of the block's format: a current header
// carries a non-null stake prevout, a legacy block has a coinstake as its
// second transaction.
func (b *Block) IsProofOfStake() bool {
	if b.Header.Format == HeaderFormatCurrent {
		return b.Header.IsProofOfStake()
	}

	return len(b.Transactions) > 1 && b.Transactions[1].IsCoinStake()
}

func (b *Block) IsProofOfWork() bool {
	return !b.IsProofOfStake()
}

// CoinStake returns the coinstake transaction of a proof-of-stake block.
func (b *Block) CoinStake() *Tx {
	if len(b.Transactions) > 1 && b.Transactions[1].IsCoinStake() {
		return b.Transactions[1]
	}

	return nil
}

// ProofOfStake returns the staked outpoint and the coinstake time, or a null
// outpoint for proof-of-work blocks.
func (b *Block) ProofOfStake() (OutPoint, uint32) {
	if !b.IsProofOfStake() {
		return NullOutPoint(), 0
	}

	if b.Header.Format == HeaderFormatCurrent {
		return b.Header.PrevoutStake, b.Header.Timestamp
	}

	coinStake := b.Transactions[1]

	return coinStake.Input(0).PreviousOutPoint, coinStake.Time()
}

// MaxTransactionTime is the largest transaction timestamp in the block.
func (b *Block) MaxTransactionTime() uint32 {
	var maxTime uint32

	for _, tx := range b.Transactions {
		if tx.Time() > maxTime {
			maxTime = tx.Time()
		}
	}

	return maxTime
}

// Checked reports whether full validation already passed for this block.
func (b *Block) Checked() bool {
	return b.checked.Load()
}

func (b *Block) MarkChecked() {
	b.checked.Store(true)
}

func (b *Block) Bytes() []byte {
	var buf bytes.Buffer

	buf.Write(b.Header.Bytes())
	_ = wire.WriteVarInt(&buf, 0, uint64(len(b.Transactions)))

	for _, tx := range b.Transactions {
		buf.Write(tx.Bytes())
	}

	if b.Header.Format == HeaderFormatLegacy {
		_ = wire.WriteVarBytes(&buf, 0, b.Header.Signature)
	}

	return buf.Bytes()
}

// StrippedSize is the serialized size without witness data.
func (b *Block) StrippedSize() int {
	return len(b.Bytes())
}

// TotalSize is the serialized size including witness data. Transactions carry
// no witness so it equals StrippedSize.
func (b *Block) TotalSize() int {
	return b.StrippedSize()
}

// Weight is stripped size * (WitnessScaleFactor - 1) + total size.
func (b *Block) Weight() int64 {
	stripped := int64(b.StrippedSize())
	total := int64(b.TotalSize())

	if stripped > (math.MaxInt64-total)/(WitnessScaleFactor-1) {
		panic(fmt.Sprintf("block %s weight overflows int64", b.hash))
	}

	return stripped*(WitnessScaleFactor-1) + total
}

// TxOffset is the byte offset of transaction index within the serialized block.
func (b *Block) TxOffset(index int) (uint32, error) {
	if index < 0 || index >= len(b.Transactions) {
		return 0, errors.NewInvalidArgumentError("transaction index %d out of range", index)
	}

	offset := len(b.Header.Bytes()) + wire.VarIntSerializeSize(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions[:index] {
		offset += tx.SerializeSize()
	}

	return safeconversion.IntToUint32(offset)
}

func (b *Block) TxHashes() []chainhash.Hash {
	hashes := make([]chainhash.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		hashes[i] = *tx.Hash()
	}

	return hashes
}

func (b *Block) CheckMerkleRoot() error {
	if len(b.Transactions) == 0 {
		return errors.NewBlockInvalidError("block %s has no transactions", b.hash)
	}

	calculated := BuildMerkleRoot(b.TxHashes())

	if b.Header.HashMerkleRoot == nil || !b.Header.HashMerkleRoot.IsEqual(&calculated) {
		return errors.NewBlockInvalidError("merkle root mismatch: header %s, calculated %s", b.Header.HashMerkleRoot, calculated)
	}

	return nil
}

// UpgradeBlock converts a legacy block to the current format. The stake
// prevout is taken from the coinstake of a proof-of-stake block. The hash is
// unchanged.
func UpgradeBlock(b *Block) (*Block, error) {
	if b.Header.Format == HeaderFormatCurrent {
		return b, nil
	}

	header := b.Header.Clone()
	header.Format = HeaderFormatCurrent
	header.PrevoutStake = NullOutPoint()

	if coinStake := b.CoinStake(); coinStake != nil {
		header.PrevoutStake = coinStake.Input(0).PreviousOutPoint
	}

	upgraded, err := NewBlock(header, b.Transactions)
	if err != nil {
		return nil, err
	}

	if !upgraded.hash.IsEqual(b.hash) {
		return nil, errors.NewProcessingError("block hash changed on upgrade: %s != %s", upgraded.hash, b.hash)
	}

	return upgraded, nil
}

// DowngradeBlock converts a current-format block to the legacy format,
// dropping the stake prevout.
func DowngradeBlock(b *Block) (*Block, error) {
	if b.Header.Format == HeaderFormatLegacy {
		return b, nil
	}

	header := b.Header.Clone()
	header.Format = HeaderFormatLegacy
	header.PrevoutStake = NullOutPoint()

	return NewBlock(header, b.Transactions)
}
