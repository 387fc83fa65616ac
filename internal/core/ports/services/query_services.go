package services

import (
	"context"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// QuerySvc provides read-only projections over accounts and the journal.
type QuerySvc interface {
	// History returns every committed record of the account, newest first.
	History(ctx context.Context, customerID string, accountID string) ([]domain.TransactionRecord, error)

	// HistoryPage returns one page of History using a cursor token.
	HistoryPage(ctx context.Context, customerID string, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// CustomerHistory returns one page of the records of all the customer's accounts, newest first.
	CustomerHistory(ctx context.Context, customerID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// CurrentBalance returns the stored balance of the account.
	CurrentBalance(ctx context.Context, customerID string, accountID string) (decimal.Decimal, error)

	// Reconcile cross-checks the stored balance against the journal.
	Reconcile(ctx context.Context, customerID string, accountID string) (*domain.ReconciliationReport, error)

	// TransferLegs returns the two records of a transfer the customer took part in.
	TransferLegs(ctx context.Context, customerID string, correlationID string) ([]domain.TransactionRecord, error)
}
