package errors

import (
	"encoding/json"
	"fmt"
)

// ErrDataI is an interface for error data that can be set, retrieved, and encoded.
type ErrDataI interface {
	EncodeErrorData() []byte
	Error() string
	GetData(key string) interface{}
	SetData(key string, value interface{})
}

// ErrData is a generic error data structure that implements the ErrDataI interface.
type ErrData map[string]interface{}

func (e *ErrData) Error() string {
	return fmt.Sprintf(" %v", *e)
}

func (e *ErrData) SetData(key string, value interface{}) {
	if e == nil {
		return
	}

	(*e)[key] = value
}

func (e *ErrData) GetData(key string) interface{} {
	if e == nil {
		return nil
	}

	return (*e)[key]
}

// EncodeErrorData encodes the error data as JSON.
func (e *ErrData) EncodeErrorData() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return []byte{}
	}

	return data
}

// KernelErrData carries the kernel hash and target of a rejected coinstake.
type KernelErrData struct {
	Hash   string `json:"hash"`
	Target string `json:"target"`
	Height uint32 `json:"height"`
}

func (e *KernelErrData) Error() string {
	return fmt.Sprintf("kernel hash %s above target %s at height %d", e.Hash, e.Target, e.Height)
}

func (e *KernelErrData) SetData(key string, value interface{}) {
	s, _ := value.(string)

	switch key {
	case "hash":
		e.Hash = s
	case "target":
		e.Target = s
	case "height":
		if h, ok := value.(uint32); ok {
			e.Height = h
		}
	}
}

func (e *KernelErrData) GetData(key string) interface{} {
	switch key {
	case "hash":
		return e.Hash
	case "target":
		return e.Target
	case "height":
		return e.Height
	}

	return nil
}

func (e *KernelErrData) EncodeErrorData() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return []byte{}
	}

	return data
}

// NewStakeTargetMissedErrorWithData builds a target-missed error carrying the kernel proof.
func NewStakeTargetMissedErrorWithData(hash, target string, height uint32, message string, params ...interface{}) *Error {
	err := New(ERR_STAKE_TARGET_MISSED, message, params...)
	err.data = &KernelErrData{Hash: hash, Target: target, Height: height}

	return err
}

// GetErrorData decodes a JSON data payload for the given code.
func GetErrorData(code ERR, dataBytes []byte) (ErrDataI, error) {
	var errData ErrDataI

	switch code {
	case ERR_STAKE_TARGET_MISSED:
		errData = &KernelErrData{}
	default:
		errData = &ErrData{}
	}

	if err := json.Unmarshal(dataBytes, errData); err != nil {
		return errData, err
	}

	return errData, nil
}
