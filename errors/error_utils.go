// Package errors provides the coded error type and helpers for categorizing
// consensus failures.
//
// Consensus checks fail in two different ways. A validation failure means the
// block or transaction broke a rule and must be rejected. A could-not-verify
// failure means a collaborator could not supply the data needed to decide
// (unknown previous transaction, missing block index entry, store outage); the
// object may be valid and callers may retry once the data is available.
package errors

import (
	"context"
	"errors"
)

// IsCouldNotVerify reports whether err means required data was unavailable
// rather than that a rule was broken.
func IsCouldNotVerify(err error) bool {
	if err == nil {
		return false
	}

	var tErr *Error
	if As(err, &tErr) {
		switch tErr.Code() {
		case ERR_TX_NOT_FOUND,
			ERR_BLOCK_NOT_FOUND,
			ERR_NOT_FOUND,
			ERR_STORAGE_UNAVAILABLE,
			ERR_STORAGE_ERROR:
			return true
		}
	}

	return IsContextError(err)
}

// IsValidationFailure reports whether err is a definitive consensus rule violation.
func IsValidationFailure(err error) bool {
	if err == nil {
		return false
	}

	var tErr *Error
	if As(err, &tErr) {
		switch tErr.Code() {
		case ERR_BLOCK_INVALID,
			ERR_BLOCK_BAD_POW,
			ERR_BLOCK_BAD_SIGNATURE,
			ERR_CHECKPOINT_MISMATCH,
			ERR_TX_INVALID,
			ERR_TX_TIME_VIOLATION,
			ERR_STAKE_KERNEL_INVALID,
			ERR_STAKE_MIN_AGE,
			ERR_STAKE_TIMESTAMP,
			ERR_STAKE_SCRIPT_INVALID,
			ERR_STAKE_TARGET_MISSED:
			return true
		}
	}

	return false
}

// IsContextError determines if an error is related to context cancellation or deadline.
func IsContextError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var tErr *Error
	if As(err, &tErr) {
		if tErr.Code() == ERR_CONTEXT_CANCELED || tErr.Code() == ERR_CONTEXT {
			return true
		}
	}

	return false
}

// GetErrorCategory returns a short label for the error, used in logs and metric labels.
func GetErrorCategory(err error) string {
	if err == nil {
		return "none"
	}

	if IsContextError(err) {
		return "context"
	}

	var tErr *Error
	if As(err, &tErr) {
		code := tErr.Code()
		switch {
		case code >= 10 && code <= 19:
			return "block"
		case code >= 30 && code <= 39:
			return "transaction"
		case code >= 40 && code <= 49:
			return "stake"
		case code >= 50 && code <= 59:
			return "service"
		case code >= 60 && code <= 69:
			return "storage"
		}
	}

	return "unknown"
}
