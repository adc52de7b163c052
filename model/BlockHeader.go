package model

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-wire"
	"github.com/clamcoin/clamnode/errors"
	"golang.org/x/crypto/scrypt"
)

// HeaderFormat tags the two header layouts found on chain.
type HeaderFormat uint8

const (
	// HeaderFormatLegacy is the 80-byte header. The block signature travels
	// after the transactions and proof-of-stake is inferred from the second
	// transaction.
	HeaderFormatLegacy HeaderFormat = iota

	// HeaderFormatCurrent appends the stake prevout and the block signature
	// to the 80-byte header.
	HeaderFormatCurrent
)

const (
	// BlockHeaderSize is the size of the hashed part of every header.
	BlockHeaderSize = 80

	// hashVersionThreshold: headers with a higher version are identified by
	// double-SHA256 instead of scrypt.
	hashVersionThreshold = 6

	maxSignatureSize = 1024

	scryptN = 1024
	scryptR = 1
	scryptP = 1
)

func (f HeaderFormat) String() string {
	switch f {
	case HeaderFormatLegacy:
		return "legacy"
	case HeaderFormatCurrent:
		return "current"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

type BlockHeader struct {
	// Layout used when serializing, see HeaderFormat.
	Format HeaderFormat

	// Version of the block.  This is not the same as the protocol version.
	Version int32

	// Hash of the previous block header in the blockchain.
	HashPrevBlock *chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	HashMerkleRoot *chainhash.Hash

	// Time the block was created im unix time.
	Timestamp uint32

	// Difficulty target for the block.
	Bits NBit

	// Nonce used to generate the block.
	Nonce uint32

	// Output staked by a proof-of-stake block, null for proof-of-work.
	// Only serialized in the current format.
	PrevoutStake OutPoint

	// Block signature by the staker.
	Signature []byte
}

// NewBlockHeaderFromBytes parses a header in the given format. For the legacy
// format exactly 80 bytes are expected.
func NewBlockHeaderFromBytes(headerBytes []byte, format HeaderFormat) (*BlockHeader, error) {
	if format == HeaderFormatLegacy && len(headerBytes) != BlockHeaderSize {
		return nil, errors.NewBlockInvalidError("block header should be %d bytes long, got %d", BlockHeaderSize, len(headerBytes))
	}

	r := bytes.NewReader(headerBytes)

	header, err := NewBlockHeaderFromReader(r, format)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, errors.NewBlockInvalidError("%d trailing bytes after block header", r.Len())
	}

	return header, nil
}

func NewBlockHeaderFromString(headerHex string, format HeaderFormat) (*BlockHeader, error) {
	headerBytes, err := hex.DecodeString(headerHex)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("error decoding hex string to bytes", err)
	}

	return NewBlockHeaderFromBytes(headerBytes, format)
}

// NewBlockHeaderFromReader reads the header fields of the given format. The
// signature of a legacy header is not part of the header encoding and is left empty.
func NewBlockHeaderFromReader(r io.Reader, format HeaderFormat) (*BlockHeader, error) {
	var b [BlockHeaderSize]byte

	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, errors.NewBlockInvalidError("error reading block header", err)
	}

	hashPrevBlock, _ := chainhash.NewHash(b[4:36])
	hashMerkleRoot, _ := chainhash.NewHash(b[36:68])

	header := &BlockHeader{
		Format:         format,
		Version:        int32(binary.LittleEndian.Uint32(b[:4])),
		HashPrevBlock:  hashPrevBlock,
		HashMerkleRoot: hashMerkleRoot,
		Timestamp:      binary.LittleEndian.Uint32(b[68:72]),
		Nonce:          binary.LittleEndian.Uint32(b[76:80]),
		PrevoutStake:   NullOutPoint(),
	}
	copy(header.Bits[:], b[72:76])

	if format != HeaderFormatCurrent {
		return header, nil
	}

	var err error

	if header.PrevoutStake, err = readOutPoint(r); err != nil {
		return nil, errors.NewBlockInvalidError("error reading stake prevout", err)
	}

	if header.Signature, err = wire.ReadVarBytes(r, 0, maxSignatureSize, "block signature"); err != nil {
		return nil, errors.NewBlockInvalidError("error reading block signature", err)
	}

	return header, nil
}

// HeaderBytes returns the 80-byte hashed part of the header.
func (bh *BlockHeader) HeaderBytes() []byte {
	b := make([]byte, BlockHeaderSize)

	binary.LittleEndian.PutUint32(b[0:4], uint32(bh.Version))

	if bh.HashPrevBlock != nil {
		copy(b[4:36], bh.HashPrevBlock[:])
	}

	if bh.HashMerkleRoot != nil {
		copy(b[36:68], bh.HashMerkleRoot[:])
	}

	binary.LittleEndian.PutUint32(b[68:72], bh.Timestamp)
	copy(b[72:76], bh.Bits[:])
	binary.LittleEndian.PutUint32(b[76:80], bh.Nonce)

	return b
}

// Bytes serializes the header in its own format, signature included.
func (bh *BlockHeader) Bytes() []byte {
	return bh.serialize(true)
}

// BytesWithoutSignature serializes the header without the signature.
func (bh *BlockHeader) BytesWithoutSignature() []byte {
	return bh.serialize(false)
}

func (bh *BlockHeader) serialize(withSignature bool) []byte {
	if bh.Format != HeaderFormatCurrent {
		return bh.HeaderBytes()
	}

	var buf bytes.Buffer

	buf.Write(bh.HeaderBytes())
	buf.Write(bh.PrevoutStake.Bytes())

	if withSignature {
		_ = wire.WriteVarBytes(&buf, 0, bh.Signature)
	}

	return buf.Bytes()
}

// Hash identifies the block. Headers up to version 6 are identified by their
// scrypt proof-of-work hash, later ones by double-SHA256. Both cover only the
// 80-byte part, so the hash does not depend on the format.
func (bh *BlockHeader) Hash() *chainhash.Hash {
	if bh.Version > hashVersionThreshold {
		hash := chainhash.DoubleHashH(bh.HeaderBytes())
		return &hash
	}

	return bh.PoWHash()
}

// PoWHash is the scrypt(N=1024, r=1, p=1) hash of the 80-byte header, with the
// header as both password and salt.
func (bh *BlockHeader) PoWHash() *chainhash.Hash {
	hb := bh.HeaderBytes()

	key, err := scrypt.Key(hb, hb, scryptN, scryptR, scryptP, chainhash.HashSize)
	if err != nil {
		// only reachable with invalid scrypt parameters
		panic(err)
	}

	var hash chainhash.Hash

	copy(hash[:], key)

	return &hash
}

// HashWithoutSignature is the double-SHA256 of the current-format encoding
// without the signature.
func (bh *BlockHeader) HashWithoutSignature() *chainhash.Hash {
	c := *bh
	c.Format = HeaderFormatCurrent

	hash := chainhash.DoubleHashH(c.BytesWithoutSignature())

	return &hash
}

// IsProofOfStake is only meaningful for current-format headers, legacy
// headers do not carry the stake prevout.
func (bh *BlockHeader) IsProofOfStake() bool {
	return bh.Format == HeaderFormatCurrent && !bh.PrevoutStake.IsNull()
}

// StakeEntropyBit is the lowest bit of the block hash, mixed into stake
// modifiers.
func (bh *BlockHeader) StakeEntropyBit() uint32 {
	return uint32(bh.Hash()[0] & 1)
}

func (bh *BlockHeader) Clone() *BlockHeader {
	c := *bh

	if bh.HashPrevBlock != nil {
		h := *bh.HashPrevBlock
		c.HashPrevBlock = &h
	}

	if bh.HashMerkleRoot != nil {
		h := *bh.HashMerkleRoot
		c.HashMerkleRoot = &h
	}

	c.Signature = cloneBytes(bh.Signature)

	return &c
}

func (bh *BlockHeader) String() string {
	return fmt.Sprintf("BlockHeader(format=%s, hash=%s, ver=%d, prev=%s, merkle=%s, time=%d, bits=%s, nonce=%d, prevoutStake=%s)",
		bh.Format, bh.Hash(), bh.Version, bh.HashPrevBlock, bh.HashMerkleRoot, bh.Timestamp, bh.Bits, bh.Nonce, bh.PrevoutStake)
}
