// Package work calculates the trust contributed by a block and the cumulative
// trust of a chain.
//
// Trust is the expected number of hash operations needed to produce a block
// with the given target, for proof-of-work and proof-of-stake blocks alike:
//
//	trust = 2^256 / (target + 1)
//
// The chain with the most cumulative trust is the best chain.
package work

import (
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/clamcoin/clamnode/model"
)

var oneLsh256 = new(big.Int).Lsh(big.NewInt(1), 256)

// CalcBlockTrust returns the trust of a single block with the given compact
// target.  Negative, overflowed and zero targets carry no trust.
func CalcBlockTrust(bits uint32) *big.Int {
	target, negative, overflow := model.CompactToBig(bits)
	if negative || overflow || target.Sign() <= 0 {
		return big.NewInt(0)
	}

	denominator := new(big.Int).Add(target, big.NewInt(1))

	return new(big.Int).Div(oneLsh256, denominator)
}

// CalculateChainTrust adds the trust of a block with bits to prevTrust.  A nil
// prevTrust starts a new chain.
func CalculateChainTrust(prevTrust *big.Int, bits model.NBit) *big.Int {
	trust := CalcBlockTrust(bits.ToUint32())
	if prevTrust == nil {
		return trust
	}

	return trust.Add(trust, prevTrust)
}

// TrustToHash encodes a cumulative trust value as a little endian hash.  Values
// wider than 256 bits keep their low 256 bits.
func TrustToHash(trust *big.Int) *chainhash.Hash {
	b := trust.Bytes()
	if len(b) > chainhash.HashSize {
		b = b[len(b)-chainhash.HashSize:]
	}

	hash := &chainhash.Hash{}
	copy(hash[:], bt.ReverseBytes(b))

	return hash
}

// HashToTrust is the inverse of TrustToHash.
func HashToTrust(hash *chainhash.Hash) *big.Int {
	return new(big.Int).SetBytes(bt.ReverseBytes(hash.CloneBytes()))
}
