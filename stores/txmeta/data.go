package txmeta

import (
	"encoding/binary"

	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
)

const dataHeaderSize = 8

// Data struct for the transaction metadata
type Data struct {
	Tx          *model.Tx
	BlockHeight uint32
	TxOffset    uint32
}

// NewDataFromBytes decodes the layout written by Bytes: block height and tx
// offset as little endian uint32, followed by the serialized transaction.
func NewDataFromBytes(dataBytes []byte) (*Data, error) {
	if len(dataBytes) < dataHeaderSize {
		return nil, errors.NewProcessingError("txmeta data too short: %d bytes", len(dataBytes))
	}

	d := &Data{
		BlockHeight: binary.LittleEndian.Uint32(dataBytes[0:4]),
		TxOffset:    binary.LittleEndian.Uint32(dataBytes[4:8]),
	}

	tx, err := model.NewTxFromBytes(dataBytes[dataHeaderSize:])
	if err != nil {
		return nil, errors.NewProcessingError("failed to decode txmeta tx", err)
	}

	d.Tx = tx

	return d, nil
}

func (d *Data) Bytes() []byte {
	txBytes := d.Tx.Bytes()

	buf := make([]byte, dataHeaderSize, dataHeaderSize+len(txBytes))
	binary.LittleEndian.PutUint32(buf[0:4], d.BlockHeight)
	binary.LittleEndian.PutUint32(buf[4:8], d.TxOffset)

	return append(buf, txBytes...)
}
