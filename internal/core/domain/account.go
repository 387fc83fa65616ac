package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType tags the product an account belongs to. Fixed at account creation.
type AccountType string

const (
	Savings  AccountType = "SAVINGS"
	Chequing AccountType = "CHEQUING"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case Savings, Chequing:
		return true
	}
	return false
}

// Account represents a customer's bank account within the core domain.
// Identity and ownership are set once by provisioning; only the ledger writes Balance.
type Account struct {
	AccountID   string          `json:"accountID"`
	OwnerID     string          `json:"ownerID"` // CustomerID of the owner
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"` // Scale 2, never negative
	OpenedAt    time.Time       `json:"openedAt"`
	// LastActivityAt is the timestamp of the latest committed journal record.
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// IsOwnedBy reports whether the account belongs to the given customer.
func (a Account) IsOwnedBy(customerID string) bool {
	return customerID != "" && a.OwnerID == customerID
}

// AccountSnapshot is a consistent read of an account and its full journal.
type AccountSnapshot struct {
	Account Account
	Records []TransactionRecord // Oldest first
}
