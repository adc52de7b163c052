package model

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/clamcoin/clamnode/errors"
)

var (
	// diff1Target is the target of difficulty 1 (compact 0x1d00ffff), the
	// reference point for CalculateDifficulty.
	diff1Target = CompactToBigMust(0x1d00ffff)
)

// NBit is a compact target as it appears in a serialized block header, i.e.
// the uint32 in little-endian byte order.
type NBit [4]byte

func NewNBitFromUint32(compact uint32) NBit {
	var b NBit

	binary.LittleEndian.PutUint32(b[:], compact)

	return b
}

// NewNBitFromSlice takes the 4 header bytes (little-endian).
func NewNBitFromSlice(nBits []byte) (*NBit, error) {
	if len(nBits) != 4 {
		return nil, errors.NewInvalidArgumentError("nBits should be 4 bytes long, got %d", len(nBits))
	}

	var b NBit

	copy(b[:], nBits)

	return &b, nil
}

// NewNBitFromString parses the usual big-endian hex representation, e.g. "1e0fffff".
func NewNBitFromString(nBits string) (*NBit, error) {
	nBitsBytes, err := hex.DecodeString(nBits)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("invalid nBits hex %q", nBits, err)
	}

	return NewNBitFromSlice(bt.ReverseBytes(nBitsBytes))
}

func (b NBit) ToUint32() uint32 {
	return binary.LittleEndian.Uint32(b[:])
}

func (b NBit) String() string {
	return hex.EncodeToString(bt.ReverseBytes(b.CloneBytes()))
}

func (b NBit) CloneBytes() []byte {
	c := make([]byte, 4)
	copy(c, b[:])

	return c
}

// Decode expands the compact form and reports the negative and overflow flags.
func (b NBit) Decode() (target *big.Int, negative bool, overflow bool) {
	return CompactToBig(b.ToUint32())
}

// CalculateTarget returns the expanded target, ignoring the sign and overflow flags.
func (b NBit) CalculateTarget() *big.Int {
	target, _, _ := b.Decode()
	return target
}

// CalculateDifficulty returns the difficulty relative to compact 0x1d00ffff.
func (b NBit) CalculateDifficulty() *big.Float {
	target := b.CalculateTarget()
	if target.Sign() == 0 {
		return new(big.Float)
	}

	return new(big.Float).Quo(
		new(big.Float).SetInt(diff1Target),
		new(big.Float).SetInt(target),
	)
}

func (b NBit) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *NBit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	n, err := NewNBitFromString(s)
	if err != nil {
		return err
	}

	*b = *n

	return nil
}

// CompactToBig converts a compact representation of a whole number N to an
// unsigned 256-bit number. The representation is similar to IEEE754 floating
// point numbers.
//
// Like IEEE754 floating point, there are three basic components: the sign,
// the exponent, and the mantissa. They are broken out as follows:
//
//   - the most significant 8 bits represent the unsigned base 256 exponent
//
//   - bit 23 (the 24th bit) represents the sign bit
//
//   - the least significant 23 bits represent the mantissa
//
//     -------------------------------------------------
//     |   Exponent     |    Sign    |    Mantissa     |
//     -------------------------------------------------
//     | 8 bits [31-24] | 1 bit [23] | 23 bits [22-00] |
//     -------------------------------------------------
//
// The formula to calculate N is:
//
//	N = (-1^sign) * mantissa * 256^(exponent-3)
//
// The returned value is always the magnitude. The negative flag is set when
// the sign bit is set on a non-zero mantissa, and overflow is set when the
// value does not fit in 256 bits. Both flags are computed on the mantissa
// after the small-exponent shift, matching the reference node.
func CompactToBig(compact uint32) (target *big.Int, negative bool, overflow bool) {
	mantissa := compact & 0x007fffff
	exponent := compact >> 24

	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		target = new(big.Int).SetUint64(uint64(mantissa))
	} else {
		target = new(big.Int).SetUint64(uint64(mantissa))
		target.Lsh(target, uint(8*(exponent-3)))
	}

	negative = mantissa != 0 && (compact&0x00800000) != 0
	overflow = mantissa != 0 && (exponent > 34 ||
		(mantissa > 0xff && exponent > 33) ||
		(mantissa > 0xffff && exponent > 32))

	return target, negative, overflow
}

// CompactToBigMust is CompactToBig for constants known to be well formed.
func CompactToBigMust(compact uint32) *big.Int {
	target, negative, overflow := CompactToBig(compact)
	if negative || overflow {
		panic("invalid compact constant")
	}

	return target
}

// BigToCompact converts a non-negative whole number n to a compact
// representation using an unsigned 32-bit number. The compact representation
// only provides 23 bits of precision, so values larger than (2^23 - 1) only
// encode the most significant digits of the number. See CompactToBig for
// details.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32

	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Rsh(n, 8*(exponent-3))
		mantissa = uint32(tn.Bits()[0])
	}

	// When the mantissa already has the sign bit set, the number is too large
	// to fit into the available 23-bits, so divide the number by 256 and
	// increment the exponent accordingly.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	return uint32(exponent<<24) | mantissa
}
