package model

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// OutPoint references output Index of the transaction with hash Hash.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

const outPointSize = chainhash.HashSize + 4

func NewOutPoint(hash *chainhash.Hash, index uint32) OutPoint {
	return OutPoint{Hash: *hash, Index: index}
}

// NullOutPoint is the outpoint of a coinbase input.
func NullOutPoint() OutPoint {
	return OutPoint{Index: 0xffffffff}
}

func (o OutPoint) IsNull() bool {
	return o.Index == 0xffffffff && o.Hash == chainhash.Hash{}
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash.String(), o.Index)
}

func (o OutPoint) Bytes() []byte {
	b := make([]byte, outPointSize)
	copy(b, o.Hash[:])
	binary.LittleEndian.PutUint32(b[chainhash.HashSize:], o.Index)

	return b
}

func readOutPoint(r io.Reader) (OutPoint, error) {
	var (
		o OutPoint
		b [outPointSize]byte
	)

	if _, err := io.ReadFull(r, b[:]); err != nil {
		return o, err
	}

	copy(o.Hash[:], b[:chainhash.HashSize])
	o.Index = binary.LittleEndian.Uint32(b[chainhash.HashSize:])

	return o, nil
}
