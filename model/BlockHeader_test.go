package model

import (
	"encoding/hex"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	genesisHeaderHex  = "0100000000000000000000000000000000000000000000000000000000000000000000000096ff1913bb893b918e53fa3dfe3ab4e9cb6a6c48b0bdb8eba6e453fd2ab310eff6584c53ffff0f1e57581f00"
	genesisHash       = "00000c3ce6b3d823a35224a39798eca9ad889966aeb5a9da7b960ffb9869db35"
	genesisDoubleSHA  = "0fd7b7379ad9a7b104ce520f91a61b238551f442543ebc995c6c4620364e9968"
	version7Hash      = "925886a4846c5a6f2c2676e514709950b810a39207f5599f623b1dd14eab44f3"
	version7ScryptPoW = "221656871e8422bdd768a9b98c98cd67f1672c9e33bad1afa3fca8f9b5b7b15d"
)

func TestNewBlockHeaderFromBytes(t *testing.T) {
	t.Run("genesis from string", func(t *testing.T) {
		header, err := NewBlockHeaderFromString(genesisHeaderHex, HeaderFormatLegacy)
		require.NoError(t, err)

		assert.Equal(t, int32(1), header.Version)
		assert.Equal(t, chainhash.Hash{}, *header.HashPrevBlock)
		assert.Equal(t, "ef10b32afd53e4a6ebb8bdb0486c6acbe9b43afe3dfa538e913b89bb1319ff96", header.HashMerkleRoot.String())
		assert.Equal(t, uint32(1397512438), header.Timestamp)
		assert.Equal(t, "1e0fffff", header.Bits.String())
		assert.Equal(t, uint32(2054231), header.Nonce)
		assert.True(t, header.PrevoutStake.IsNull())
		assert.Equal(t, genesisHeaderHex, hex.EncodeToString(header.Bytes()))
	})

	t.Run("legacy requires 80 bytes", func(t *testing.T) {
		b, _ := hex.DecodeString(genesisHeaderHex)

		_, err := NewBlockHeaderFromBytes(b[:79], HeaderFormatLegacy)
		require.Error(t, err)

		_, err = NewBlockHeaderFromBytes(append(b, 0), HeaderFormatLegacy)
		require.Error(t, err)
	})

	t.Run("current without stake fields", func(t *testing.T) {
		b, _ := hex.DecodeString(genesisHeaderHex)

		_, err := NewBlockHeaderFromBytes(b, HeaderFormatCurrent)
		require.Error(t, err)
	})
}

func TestBlockHeader_Hash(t *testing.T) {
	header, err := NewBlockHeaderFromString(genesisHeaderHex, HeaderFormatLegacy)
	require.NoError(t, err)

	t.Run("scrypt identity up to version 6", func(t *testing.T) {
		assert.Equal(t, genesisHash, header.Hash().String())
		assert.Equal(t, genesisHash, header.PoWHash().String())
		assert.NotEqual(t, genesisDoubleSHA, header.Hash().String())

		// 0x35 is the lowest byte of the genesis hash
		assert.Equal(t, uint32(1), header.StakeEntropyBit())
	})

	t.Run("double sha256 identity above version 6", func(t *testing.T) {
		h := header.Clone()
		h.Version = 7

		assert.Equal(t, version7Hash, h.Hash().String())
		assert.Equal(t, version7ScryptPoW, h.PoWHash().String())
	})

	t.Run("format does not change the hash", func(t *testing.T) {
		h := header.Clone()
		h.Format = HeaderFormatCurrent
		h.PrevoutStake = NewOutPoint(&chainhash.Hash{9}, 2)
		h.Signature = []byte{0x30, 0x01}

		assert.Equal(t, genesisHash, h.Hash().String())
	})
}

func TestBlockHeader_CurrentFormat(t *testing.T) {
	header, err := NewBlockHeaderFromString(genesisHeaderHex, HeaderFormatLegacy)
	require.NoError(t, err)

	header.Format = HeaderFormatCurrent
	header.PrevoutStake = NewOutPoint(&chainhash.Hash{0xaa}, 3)
	header.Signature = []byte{0x30, 0x44, 0x02, 0x20}

	full := header.Bytes()
	require.Len(t, full, BlockHeaderSize+36+1+4)

	withoutSig := header.BytesWithoutSignature()
	require.Len(t, withoutSig, BlockHeaderSize+36)
	assert.Equal(t, full[:len(withoutSig)], withoutSig)

	assert.Equal(t, chainhash.DoubleHashH(withoutSig), *header.HashWithoutSignature())

	// the signature is excluded from the signed hash
	h := header.Clone()
	h.Signature = nil
	assert.Equal(t, header.HashWithoutSignature(), h.HashWithoutSignature())

	parsed, err := NewBlockHeaderFromBytes(full, HeaderFormatCurrent)
	require.NoError(t, err)
	assert.Equal(t, header, parsed)
	assert.True(t, parsed.IsProofOfStake())
}

func TestBlockHeader_IsProofOfStake(t *testing.T) {
	header, err := NewBlockHeaderFromString(genesisHeaderHex, HeaderFormatLegacy)
	require.NoError(t, err)

	// legacy headers never answer for themselves
	header.PrevoutStake = NewOutPoint(&chainhash.Hash{1}, 0)
	assert.False(t, header.IsProofOfStake())

	header.Format = HeaderFormatCurrent
	assert.True(t, header.IsProofOfStake())

	header.PrevoutStake = NullOutPoint()
	assert.False(t, header.IsProofOfStake())
}

func TestBlockHeader_Clone(t *testing.T) {
	header, err := NewBlockHeaderFromString(genesisHeaderHex, HeaderFormatLegacy)
	require.NoError(t, err)

	header.Signature = []byte{1, 2}
	c := header.Clone()
	c.HashPrevBlock[0] = 1
	c.Signature[0] = 9

	assert.Equal(t, chainhash.Hash{}, *header.HashPrevBlock)
	assert.Equal(t, []byte{1, 2}, header.Signature)
	assert.Equal(t, "legacy", header.Format.String())
	assert.Contains(t, header.String(), genesisHash)
}
