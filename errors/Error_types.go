package errors

var (
	ErrUnknown            = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument    = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrThresholdExceeded  = New(ERR_THRESHOLD_EXCEEDED, "threshold exceeded")
	ErrNotFound           = New(ERR_NOT_FOUND, "not found")
	ErrProcessing         = New(ERR_PROCESSING, "error processing")
	ErrConfiguration      = New(ERR_CONFIGURATION, "configuration error")
	ErrContext            = New(ERR_CONTEXT, "context error")
	ErrContextCanceled    = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrError              = New(ERR_ERROR, "generic error")
	ErrBlockNotFound      = New(ERR_BLOCK_NOT_FOUND, "block not found")
	ErrBlockInvalid       = New(ERR_BLOCK_INVALID, "block invalid")
	ErrBlockExists        = New(ERR_BLOCK_EXISTS, "block exists")
	ErrBlockError         = New(ERR_BLOCK_ERROR, "block error")
	ErrBlockBadPoW        = New(ERR_BLOCK_BAD_POW, "proof of work failed")
	ErrBlockBadSignature  = New(ERR_BLOCK_BAD_SIGNATURE, "bad block signature")
	ErrCheckpointMismatch = New(ERR_CHECKPOINT_MISMATCH, "checkpoint mismatch")
	ErrTxNotFound         = New(ERR_TX_NOT_FOUND, "tx not found")
	ErrTxInvalid          = New(ERR_TX_INVALID, "tx invalid")
	ErrTxAlreadyExists    = New(ERR_TX_ALREADY_EXISTS, "tx already exists")
	ErrTxError            = New(ERR_TX_ERROR, "tx error")
	ErrTxTimeViolation    = New(ERR_TX_TIME_VIOLATION, "transaction timestamp violation")
	ErrStakeKernelInvalid = New(ERR_STAKE_KERNEL_INVALID, "stake kernel invalid")
	ErrStakeMinAge        = New(ERR_STAKE_MIN_AGE, "min age violation")
	ErrStakeTimestamp     = New(ERR_STAKE_TIMESTAMP, "coinstake timestamp violation")
	ErrStakeScriptInvalid = New(ERR_STAKE_SCRIPT_INVALID, "coinstake script verification failed")
	ErrStakeTargetMissed  = New(ERR_STAKE_TARGET_MISSED, "kernel hash does not meet target")
	ErrServiceError       = New(ERR_SERVICE_ERROR, "service error")
	ErrStorageUnavailable = New(ERR_STORAGE_UNAVAILABLE, "storage unavailable")
	ErrStorageError       = New(ERR_STORAGE_ERROR, "storage error")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewThresholdExceededError(message string, params ...interface{}) error {
	return New(ERR_THRESHOLD_EXCEEDED, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewContextError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}
func NewBlockNotFoundError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_NOT_FOUND, message, params...)
}
func NewBlockInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_INVALID, message, params...)
}
func NewBlockExistsError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_EXISTS, message, params...)
}
func NewBlockError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_ERROR, message, params...)
}
func NewBlockBadPoWError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_BAD_POW, message, params...)
}
func NewBlockBadSignatureError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_BAD_SIGNATURE, message, params...)
}
func NewCheckpointMismatchError(message string, params ...interface{}) error {
	return New(ERR_CHECKPOINT_MISMATCH, message, params...)
}
func NewTxNotFoundError(message string, params ...interface{}) error {
	return New(ERR_TX_NOT_FOUND, message, params...)
}
func NewTxInvalidError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID, message, params...)
}
func NewTxAlreadyExistsError(message string, params ...interface{}) error {
	return New(ERR_TX_ALREADY_EXISTS, message, params...)
}
func NewTxError(message string, params ...interface{}) error {
	return New(ERR_TX_ERROR, message, params...)
}
func NewTxTimeViolationError(message string, params ...interface{}) error {
	return New(ERR_TX_TIME_VIOLATION, message, params...)
}
func NewStakeKernelError(message string, params ...interface{}) error {
	return New(ERR_STAKE_KERNEL_INVALID, message, params...)
}
func NewStakeMinAgeError(message string, params ...interface{}) error {
	return New(ERR_STAKE_MIN_AGE, message, params...)
}
func NewStakeTimestampError(message string, params ...interface{}) error {
	return New(ERR_STAKE_TIMESTAMP, message, params...)
}
func NewStakeScriptInvalidError(message string, params ...interface{}) error {
	return New(ERR_STAKE_SCRIPT_INVALID, message, params...)
}
func NewStakeTargetMissedError(message string, params ...interface{}) error {
	return New(ERR_STAKE_TARGET_MISSED, message, params...)
}
func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}
func NewStorageUnavailableError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_UNAVAILABLE, message, params...)
}
func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}
