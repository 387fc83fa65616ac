package repositories

import (
	"context"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data.
// Balances are written only through LedgerTx.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByOwner retrieves every account held by a customer, oldest first.
	ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)
}
