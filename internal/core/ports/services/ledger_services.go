package services

import (
	"context"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEngineSvc applies single-account balance changes.
// customerID must own the account; otherwise the account is reported as not found.
type LedgerEngineSvc interface {
	ApplyDeposit(ctx context.Context, customerID string, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error)
	ApplyWithdrawal(ctx context.Context, customerID string, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error)
}

// TransferCoordinatorSvc moves funds between two accounts as one atomic unit.
// customerID must own the sender account; the receiver may belong to anyone.
type TransferCoordinatorSvc interface {
	Transfer(ctx context.Context, customerID string, intent domain.TransferIntent) (*domain.TransferResult, error)
}

// LedgerSvcFacade combines every mutating ledger operation.
type LedgerSvcFacade interface {
	LedgerEngineSvc
	TransferCoordinatorSvc
}
