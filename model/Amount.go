package model

import (
	"fmt"
)

// Amount is a quantity of the smallest unit of the coin.
type Amount int64

const (
	COIN Amount = 100_000_000
	CENT Amount = 1_000_000

	// MaxMoney bounds any single amount and any running sum of amounts.
	MaxMoney = 1_000_000_000 * COIN
)

// MoneyRange reports whether v is a valid amount.
func MoneyRange(v Amount) bool {
	return v >= 0 && v <= MaxMoney
}

func (a Amount) String() string {
	sign := ""
	abs := a

	if a < 0 {
		sign = "-"
		abs = -a
	}

	return fmt.Sprintf("%s%d.%08d CLAM", sign, abs/COIN, abs%COIN)
}
