package domain

import (
	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransferIntent is the request to move funds between two accounts. It is never persisted.
type TransferIntent struct {
	SenderAccountID   string
	ReceiverAccountID string
	Amount            decimal.Decimal
}

// Validate checks the rules that need no stored state.
func (t TransferIntent) Validate() error {
	if !IsValidAmount(t.Amount) {
		return apperrors.ErrInvalidAmount
	}
	if t.SenderAccountID == t.ReceiverAccountID {
		return apperrors.ErrSameAccount
	}
	return nil
}

// TransferResult holds the two legs of a committed transfer.
type TransferResult struct {
	CorrelationID string
	Debit         TransactionRecord
	Credit        TransactionRecord
}
