package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is the row layout of the transactions journal table.
type TransactionRecord struct {
	ID            int64
	AccountID     string
	Kind          string
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	Status        string
	CreatedAt     time.Time
	CorrelationID *string // NULL for deposits and withdrawals
}
