package model

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-wire"
	"github.com/clamcoin/clamnode/errors"
)

const (
	// CurrentTxVersion is the version of newly built transactions. Versions
	// above 1 carry the speech string.
	CurrentTxVersion int32 = 2

	// MaxSpeechLength bounds the free-form speech attached to a transaction.
	MaxSpeechLength = 1024

	// SequenceFinal disables lock time for an input.
	SequenceFinal uint32 = 0xffffffff

	// WitnessScaleFactor weighs stripped size against total size.
	WitnessScaleFactor = 4

	maxScriptReadSize = 4_000_000
	maxSpeechReadSize = 65_536
	maxTxInOutCount   = 1_000_000
)

type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

type TxOut struct {
	Value    Amount
	PkScript []byte
}

// IsEmpty reports whether the output is the zero-value marker used as the
// first output of a coinstake.
func (o TxOut) IsEmpty() bool {
	return o.Value == 0 && len(o.PkScript) == 0
}

// MutableTx is the builder form of a transaction. Its hash is recomputed on
// every call, finalize it with NewTx to get a Tx with a cached hash.
type MutableTx struct {
	Version  int32
	Time     uint32
	TxIn     []TxIn
	TxOut    []TxOut
	LockTime uint32
	Speech   string
}

func NewMutableTx() *MutableTx {
	return &MutableTx{Version: CurrentTxVersion}
}

func (m *MutableTx) AddInput(prevOut OutPoint, signatureScript []byte) *MutableTx {
	m.TxIn = append(m.TxIn, TxIn{PreviousOutPoint: prevOut, SignatureScript: signatureScript, Sequence: SequenceFinal})
	return m
}

func (m *MutableTx) AddOutput(value Amount, pkScript []byte) *MutableTx {
	m.TxOut = append(m.TxOut, TxOut{Value: value, PkScript: pkScript})
	return m
}

func (m *MutableTx) Hash() chainhash.Hash {
	return chainhash.DoubleHashH(m.Bytes())
}

func (m *MutableTx) Bytes() []byte {
	var buf bytes.Buffer

	// writes to a bytes.Buffer never fail
	_ = writeTx(&buf, m)

	return buf.Bytes()
}

// Tx is an immutable transaction. The hash is computed once when the
// transaction is finalized.
type Tx struct {
	m    MutableTx
	hash chainhash.Hash
	size int
}

// NewTx finalizes m. The builder is deep-copied so later changes to m do not
// affect the returned transaction.
func NewTx(m *MutableTx) (*Tx, error) {
	if m == nil {
		return nil, errors.NewInvalidArgumentError("nil transaction")
	}

	if len(m.Speech) > MaxSpeechLength {
		return nil, errors.NewTxInvalidError("speech length %d exceeds %d", len(m.Speech), MaxSpeechLength)
	}

	if m.Version <= 1 && m.Speech != "" {
		return nil, errors.NewTxInvalidError("version %d transactions cannot carry speech", m.Version)
	}

	tx := &Tx{m: *copyMutableTx(m)}

	b := tx.m.Bytes()
	tx.hash = chainhash.DoubleHashH(b)
	tx.size = len(b)

	return tx, nil
}

func NewTxFromBytes(b []byte) (*Tx, error) {
	r := bytes.NewReader(b)

	tx, err := NewTxFromReader(r)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, errors.NewTxInvalidError("%d trailing bytes after transaction", r.Len())
	}

	return tx, nil
}

func NewTxFromString(s string) (*Tx, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("invalid transaction hex", err)
	}

	return NewTxFromBytes(b)
}

func NewTxFromReader(r io.Reader) (*Tx, error) {
	m, err := readTx(r)
	if err != nil {
		return nil, errors.NewTxInvalidError("failed to read transaction", err)
	}

	return NewTx(m)
}

func (tx *Tx) Hash() *chainhash.Hash {
	h := tx.hash
	return &h
}

func (tx *Tx) Version() int32   { return tx.m.Version }
func (tx *Tx) Time() uint32     { return tx.m.Time }
func (tx *Tx) LockTime() uint32 { return tx.m.LockTime }
func (tx *Tx) Speech() string   { return tx.m.Speech }
func (tx *Tx) InputCount() int  { return len(tx.m.TxIn) }
func (tx *Tx) OutputCount() int { return len(tx.m.TxOut) }

// Input returns a copy of input i.
func (tx *Tx) Input(i int) TxIn {
	in := tx.m.TxIn[i]
	in.SignatureScript = cloneBytes(in.SignatureScript)

	return in
}

// Output returns a copy of output i.
func (tx *Tx) Output(i int) TxOut {
	out := tx.m.TxOut[i]
	out.PkScript = cloneBytes(out.PkScript)

	return out
}

func (tx *Tx) Inputs() []TxIn {
	return copyMutableTx(&tx.m).TxIn
}

func (tx *Tx) Outputs() []TxOut {
	return copyMutableTx(&tx.m).TxOut
}

// ToMutable returns a builder initialised with a copy of the transaction.
func (tx *Tx) ToMutable() *MutableTx {
	return copyMutableTx(&tx.m)
}

func (tx *Tx) IsCoinBase() bool {
	return len(tx.m.TxIn) == 1 && tx.m.TxIn[0].PreviousOutPoint.IsNull()
}

// IsCoinStake reports whether the transaction has the coinstake shape: a
// non-null first input, at least two outputs and an empty first output.
func (tx *Tx) IsCoinStake() bool {
	return len(tx.m.TxIn) > 0 &&
		!tx.m.TxIn[0].PreviousOutPoint.IsNull() &&
		len(tx.m.TxOut) >= 2 &&
		tx.m.TxOut[0].IsEmpty()
}

// GetValueOut sums the outputs, failing when any output or the running sum leaves the money range.
func (tx *Tx) GetValueOut() (Amount, error) {
	var total Amount

	for i, out := range tx.m.TxOut {
		total += out.Value
		if !MoneyRange(out.Value) || !MoneyRange(total) {
			return 0, errors.NewTxInvalidError("[GetValueOut][%s] output %d value out of range", tx.hash, i)
		}
	}

	return total, nil
}

func (tx *Tx) Bytes() []byte {
	return tx.m.Bytes()
}

func (tx *Tx) String() string {
	kind := "Tx"
	if tx.IsCoinBase() {
		kind = "Coinbase"
	} else if tx.IsCoinStake() {
		kind = "Coinstake"
	}

	var sb strings.Builder

	speech := tx.m.Speech
	if len(speech) > 30 {
		speech = speech[:30]
	}

	sb.WriteString(fmt.Sprintf("%s(hash=%s, ver=%d, time=%d, vin=%d, vout=%d, locktime=%d, speech=%q)\n",
		kind, tx.hash.String()[:10], tx.m.Version, tx.m.Time, len(tx.m.TxIn), len(tx.m.TxOut), tx.m.LockTime, speech))

	for _, in := range tx.m.TxIn {
		sb.WriteString(fmt.Sprintf("    in  %s\n", in.PreviousOutPoint))
	}

	for _, out := range tx.m.TxOut {
		sb.WriteString(fmt.Sprintf("    out %s %x\n", out.Value, out.PkScript))
	}

	return sb.String()
}

// SerializeSize is the serialized size. Transactions carry no witness data so
// the stripped and total sizes are equal.
func (tx *Tx) SerializeSize() int {
	return tx.size
}

func (tx *Tx) Weight() int {
	return tx.size * WitnessScaleFactor
}

func writeTx(w io.Writer, m *MutableTx) error {
	var b4 [4]byte

	binary.LittleEndian.PutUint32(b4[:], uint32(m.Version))

	if _, err := w.Write(b4[:]); err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(b4[:], m.Time)

	if _, err := w.Write(b4[:]); err != nil {
		return err
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(m.TxIn))); err != nil {
		return err
	}

	for _, in := range m.TxIn {
		if _, err := w.Write(in.PreviousOutPoint.Bytes()); err != nil {
			return err
		}

		if err := wire.WriteVarBytes(w, 0, in.SignatureScript); err != nil {
			return err
		}

		binary.LittleEndian.PutUint32(b4[:], in.Sequence)

		if _, err := w.Write(b4[:]); err != nil {
			return err
		}
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(m.TxOut))); err != nil {
		return err
	}

	var b8 [8]byte

	for _, out := range m.TxOut {
		binary.LittleEndian.PutUint64(b8[:], uint64(out.Value))

		if _, err := w.Write(b8[:]); err != nil {
			return err
		}

		if err := wire.WriteVarBytes(w, 0, out.PkScript); err != nil {
			return err
		}
	}

	binary.LittleEndian.PutUint32(b4[:], m.LockTime)

	if _, err := w.Write(b4[:]); err != nil {
		return err
	}

	if m.Version > 1 {
		return wire.WriteVarString(w, 0, m.Speech)
	}

	return nil
}

func readTx(r io.Reader) (*MutableTx, error) {
	var (
		b4 [4]byte
		b8 [8]byte
		m  MutableTx
	)

	if _, err := io.ReadFull(r, b4[:]); err != nil {
		return nil, err
	}

	m.Version = int32(binary.LittleEndian.Uint32(b4[:]))

	if _, err := io.ReadFull(r, b4[:]); err != nil {
		return nil, err
	}

	m.Time = binary.LittleEndian.Uint32(b4[:])

	inCount, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, err
	}

	if inCount > maxTxInOutCount {
		return nil, errors.NewTxInvalidError("too many inputs: %d", inCount)
	}

	m.TxIn = make([]TxIn, inCount)

	for i := range m.TxIn {
		if m.TxIn[i].PreviousOutPoint, err = readOutPoint(r); err != nil {
			return nil, err
		}

		if m.TxIn[i].SignatureScript, err = wire.ReadVarBytes(r, 0, maxScriptReadSize, "signature script"); err != nil {
			return nil, err
		}

		if _, err = io.ReadFull(r, b4[:]); err != nil {
			return nil, err
		}

		m.TxIn[i].Sequence = binary.LittleEndian.Uint32(b4[:])
	}

	outCount, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, err
	}

	if outCount > maxTxInOutCount {
		return nil, errors.NewTxInvalidError("too many outputs: %d", outCount)
	}

	m.TxOut = make([]TxOut, outCount)

	for i := range m.TxOut {
		if _, err = io.ReadFull(r, b8[:]); err != nil {
			return nil, err
		}

		m.TxOut[i].Value = Amount(binary.LittleEndian.Uint64(b8[:]))

		if m.TxOut[i].PkScript, err = wire.ReadVarBytes(r, 0, maxScriptReadSize, "pk script"); err != nil {
			return nil, err
		}
	}

	if _, err = io.ReadFull(r, b4[:]); err != nil {
		return nil, err
	}

	m.LockTime = binary.LittleEndian.Uint32(b4[:])

	if m.Version > 1 {
		speech, err := wire.ReadVarBytes(r, 0, maxSpeechReadSize, "speech")
		if err != nil {
			return nil, err
		}

		m.Speech = string(speech)
	}

	return &m, nil
}

func copyMutableTx(m *MutableTx) *MutableTx {
	c := *m

	c.TxIn = make([]TxIn, len(m.TxIn))
	for i, in := range m.TxIn {
		c.TxIn[i] = in
		c.TxIn[i].SignatureScript = cloneBytes(in.SignatureScript)
	}

	c.TxOut = make([]TxOut, len(m.TxOut))
	for i, out := range m.TxOut {
		c.TxOut[i] = out
		c.TxOut[i].PkScript = cloneBytes(out.PkScript)
	}

	return &c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	c := make([]byte, len(b))
	copy(c, b)

	return c
}
