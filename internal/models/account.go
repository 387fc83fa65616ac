package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the row layout of the accounts table.
type Account struct {
	AccountID      string
	OwnerID        string
	AccountType    string
	Balance        decimal.Decimal
	OpenedAt       time.Time
	LastActivityAt time.Time
}
