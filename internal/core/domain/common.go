package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits carried by every amount.
const MoneyScale int32 = 2

// MaxAmount is the exclusive upper bound for an amount and for a balance (numeric(15,2)).
var MaxAmount = decimal.New(1, 13)

// IsValidAmount reports whether amount is positive, below MaxAmount and has at most two decimals.
func IsValidAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	if amount.GreaterThanOrEqual(MaxAmount) {
		return false
	}
	return amount.Equal(amount.Truncate(MoneyScale))
}

// NormalizeAmount fixes the representation of amount to two decimals.
func NormalizeAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyScale)
}

// LaterOf returns the latest of the given timestamps.
func LaterOf(t time.Time, others ...time.Time) time.Time {
	latest := t
	for _, o := range others {
		if o.After(latest) {
			latest = o
		}
	}
	return latest
}
