package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider returns every repository backed by the pool.
// Close releases the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		JournalRepo:  newPgxJournalRepository(dbPool, lockTimeout),
		CustomerRepo: newPgxCustomerRepository(dbPool),
		Close:        dbPool.Close,
	}
}
