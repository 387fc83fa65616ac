package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTx is the set of writes available inside a single atomic commit.
type LedgerTx interface {
	// LockAccountsForUpdate loads the accounts and holds them exclusively until the
	// transaction ends. Rows are locked in ascending id order. Missing ids are simply
	// absent from the result.
	LockAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalance sets the balance of a locked account.
	UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, at time.Time) error

	// AppendRecords appends journal records and returns them with their assigned ids.
	AppendRecords(ctx context.Context, records []domain.TransactionRecord) ([]domain.TransactionRecord, error)
}

// LedgerUnitOfWork runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back otherwise, so a failed fn leaves no trace.
type LedgerUnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
