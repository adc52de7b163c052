package errors

// ERR is the numeric error code carried by every *Error.
// Codes are grouped in ranges, see GetErrorCategory.
type ERR int32

//nolint:revive,stylecheck // upper case names mirror the wire enumeration
const (
	ERR_UNKNOWN            ERR = 0
	ERR_INVALID_ARGUMENT   ERR = 1
	ERR_THRESHOLD_EXCEEDED ERR = 2
	ERR_NOT_FOUND          ERR = 3
	ERR_PROCESSING         ERR = 4
	ERR_CONFIGURATION      ERR = 5
	ERR_CONTEXT            ERR = 6
	ERR_CONTEXT_CANCELED   ERR = 7
	ERR_ERROR              ERR = 9

	ERR_BLOCK_NOT_FOUND     ERR = 10
	ERR_BLOCK_INVALID       ERR = 11
	ERR_BLOCK_EXISTS        ERR = 12
	ERR_BLOCK_ERROR         ERR = 13
	ERR_BLOCK_BAD_POW       ERR = 14
	ERR_BLOCK_BAD_SIGNATURE ERR = 15
	ERR_CHECKPOINT_MISMATCH ERR = 16

	ERR_TX_NOT_FOUND      ERR = 30
	ERR_TX_INVALID        ERR = 31
	ERR_TX_ALREADY_EXISTS ERR = 32
	ERR_TX_ERROR          ERR = 33
	ERR_TX_TIME_VIOLATION ERR = 34

	ERR_STAKE_KERNEL_INVALID ERR = 40
	ERR_STAKE_MIN_AGE        ERR = 41
	ERR_STAKE_TIMESTAMP      ERR = 42
	ERR_STAKE_SCRIPT_INVALID ERR = 43
	ERR_STAKE_TARGET_MISSED  ERR = 44

	ERR_SERVICE_ERROR ERR = 52

	ERR_STORAGE_UNAVAILABLE ERR = 60
	ERR_STORAGE_ERROR       ERR = 62
)

var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	2:  "THRESHOLD_EXCEEDED",
	3:  "NOT_FOUND",
	4:  "PROCESSING",
	5:  "CONFIGURATION",
	6:  "CONTEXT",
	7:  "CONTEXT_CANCELED",
	9:  "ERROR",
	10: "BLOCK_NOT_FOUND",
	11: "BLOCK_INVALID",
	12: "BLOCK_EXISTS",
	13: "BLOCK_ERROR",
	14: "BLOCK_BAD_POW",
	15: "BLOCK_BAD_SIGNATURE",
	16: "CHECKPOINT_MISMATCH",
	30: "TX_NOT_FOUND",
	31: "TX_INVALID",
	32: "TX_ALREADY_EXISTS",
	33: "TX_ERROR",
	34: "TX_TIME_VIOLATION",
	40: "STAKE_KERNEL_INVALID",
	41: "STAKE_MIN_AGE",
	42: "STAKE_TIMESTAMP",
	43: "STAKE_SCRIPT_INVALID",
	44: "STAKE_TARGET_MISSED",
	52: "SERVICE_ERROR",
	60: "STORAGE_UNAVAILABLE",
	62: "STORAGE_ERROR",
}

// Enum returns the symbolic name of the code.
func (x ERR) Enum() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return "INVALID"
}

func (x ERR) String() string {
	return x.Enum()
}
