package repositories

import (
	"context"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
)

// JournalReader defines read operations over the append-only journal.
type JournalReader interface {
	// ListRecordsByAccount returns records newest first. A limit <= 0 returns everything;
	// beforeID restricts the result to records with a smaller id.
	ListRecordsByAccount(ctx context.Context, accountID string, limit int, beforeID *int64) ([]domain.TransactionRecord, error)

	// ListRecordsByOwner returns the records of every account held by ownerID,
	// newest first, with the same limit and beforeID rules as ListRecordsByAccount.
	ListRecordsByOwner(ctx context.Context, ownerID string, limit int, beforeID *int64) ([]domain.TransactionRecord, error)

	// FindRecordsByCorrelationID returns both legs of a transfer, debit first.
	FindRecordsByCorrelationID(ctx context.Context, correlationID string) ([]domain.TransactionRecord, error)

	// SnapshotAccount reads an account and its full journal from one consistent view.
	SnapshotAccount(ctx context.Context, accountID string) (*domain.AccountSnapshot, error)
}

// JournalRepositoryFacade combines journal reads with the ledger commit point.
type JournalRepositoryFacade interface {
	JournalReader
	LedgerUnitOfWork
}
