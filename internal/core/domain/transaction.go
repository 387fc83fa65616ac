package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies what produced a journal record.
type TransactionKind string

const (
	Deposit     TransactionKind = "DEPOSIT"
	Withdrawal  TransactionKind = "WITHDRAWAL"
	TransferOut TransactionKind = "TRANSFER_OUT"
	TransferIn  TransactionKind = "TRANSFER_IN"
)

// IsCredit reports whether the kind increases the account balance.
func (k TransactionKind) IsCredit() bool {
	return k == Deposit || k == TransferIn
}

// IsTransferLeg reports whether the kind is one side of a transfer.
func (k TransactionKind) IsTransferLeg() bool {
	return k == TransferOut || k == TransferIn
}

// SignedAmount applies the sign convention of the kind to a positive magnitude.
func (k TransactionKind) SignedAmount(magnitude decimal.Decimal) decimal.Decimal {
	if k.IsCredit() {
		return magnitude.Abs()
	}
	return magnitude.Abs().Neg()
}

// TransactionStatus is the terminal state of a journal record.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "COMPLETED"
	// StatusFailed is reserved; rejected attempts are never journaled.
	StatusFailed TransactionStatus = "FAILED"
)

// TransactionRecord is one append-only journal entry affecting a single account.
type TransactionRecord struct {
	ID            int64             `json:"id"` // Assigned by the store, increasing
	AccountID     string            `json:"accountID"`
	Kind          TransactionKind   `json:"kind"`
	Amount        decimal.Decimal   `json:"amount"`       // Signed: credits positive, debits negative
	BalanceAfter  decimal.Decimal   `json:"balanceAfter"` // Snapshot, never recomputed
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	CorrelationID *string           `json:"correlationID,omitempty"` // Transfer legs only
}

// NewRecord builds a completed record for a balance change already computed by the caller.
func NewRecord(accountID string, kind TransactionKind, magnitude, balanceAfter decimal.Decimal, at time.Time, correlationID *string) TransactionRecord {
	return TransactionRecord{
		AccountID:     accountID,
		Kind:          kind,
		Amount:        kind.SignedAmount(magnitude),
		BalanceAfter:  balanceAfter,
		Status:        StatusCompleted,
		CreatedAt:     at,
		CorrelationID: correlationID,
	}
}

// ReplayBalance sums the legs of records starting from zero.
func ReplayBalance(records []TransactionRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Status != StatusCompleted {
			continue
		}
		total = total.Add(r.Amount)
	}
	return total
}
