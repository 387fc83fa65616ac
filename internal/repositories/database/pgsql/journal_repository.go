package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/rivanna_bank_ledger/internal/models"
	"github.com/SscSPs/rivanna_bank_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const recordColumns = `transaction_id, account_id, kind, amount, balance_after, status, created_at, correlation_id`

type PgxJournalRepository struct {
	BaseRepository
	lockTimeout time.Duration
}

// newPgxJournalRepository creates a new repository for journal records and balance updates.
// lockTimeout bounds how long a transaction waits for row locks; zero leaves the server default.
func newPgxJournalRepository(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxJournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		lockTimeout:    lockTimeout,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// RunInTx runs fn inside one database transaction and commits only if fn succeeds.
func (r *PgxJournalRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	if r.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return apperrors.NewAppError(500, "failed to set lock timeout", err)
		}
	}

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// pgxLedgerTx implements portsrepo.LedgerTx on an open pgx transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

// LockAccountsForUpdate takes row locks in ascending account id order.
func (t *pgxLedgerTx) LockAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1::uuid[])
		ORDER BY account_id
		FOR UPDATE;
	`
	// Ids that are not UUIDs cannot exist; leaving them out reports them as missing.
	rows, err := t.tx.Query(ctx, query, validUUIDs(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", translatePgError(err))
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account: %w", translatePgError(err))
		}
		accounts[acc.AccountID] = *acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", translatePgError(err))
	}
	return accounts, nil
}

func (t *pgxLedgerTx) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, at time.Time) error {
	query := `UPDATE accounts SET balance = $2, last_activity_at = $3 WHERE account_id = $1;`

	tag, err := t.tx.Exec(ctx, query, accountID, balance, at)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", accountID, translatePgError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return nil
}

// AppendRecords inserts records in order and returns them with their assigned ids.
func (t *pgxLedgerTx) AppendRecords(ctx context.Context, records []domain.TransactionRecord) ([]domain.TransactionRecord, error) {
	query := `
		INSERT INTO transactions (account_id, kind, amount, balance_after, status, created_at, correlation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING transaction_id;
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		m := mapping.ToModelTransactionRecord(rec)
		batch.Queue(query, m.AccountID, m.Kind, m.Amount, m.BalanceAfter, m.Status, m.CreatedAt, m.CorrelationID)
	}

	br := t.tx.SendBatch(ctx, batch)
	out := make([]domain.TransactionRecord, len(records))
	for i, rec := range records {
		if err := br.QueryRow().Scan(&rec.ID); err != nil {
			br.Close()
			return nil, fmt.Errorf("failed to append record for account %s: %w", rec.AccountID, translatePgError(err))
		}
		out[i] = rec
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to close record batch: %w", translatePgError(err))
	}
	return out, nil
}

// ListRecordsByAccount returns records newest first. A limit of zero or less returns all of them.
func (r *PgxJournalRepository) ListRecordsByAccount(ctx context.Context, accountID string, limit int, beforeID *int64) ([]domain.TransactionRecord, error) {
	if !isUUID(accountID) {
		return []domain.TransactionRecord{}, nil
	}
	query := `SELECT ` + recordColumns + ` FROM transactions WHERE account_id = $1`
	args := []any{accountID}
	if beforeID != nil {
		args = append(args, *beforeID)
		query += fmt.Sprintf(" AND transaction_id < $%d", len(args))
	}
	query += " ORDER BY transaction_id DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for account %s: %w", accountID, translatePgError(err))
	}
	return collectRecords(rows)
}

// ListRecordsByOwner returns the records of all of ownerID's accounts, newest first.
func (r *PgxJournalRepository) ListRecordsByOwner(ctx context.Context, ownerID string, limit int, beforeID *int64) ([]domain.TransactionRecord, error) {
	if !isUUID(ownerID) {
		return []domain.TransactionRecord{}, nil
	}
	query := `
		SELECT ` + recordColumns + `
		FROM transactions
		WHERE account_id IN (SELECT account_id FROM accounts WHERE owner_id = $1)`
	args := []any{ownerID}
	if beforeID != nil {
		args = append(args, *beforeID)
		query += fmt.Sprintf(" AND transaction_id < $%d", len(args))
	}
	query += " ORDER BY transaction_id DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for owner %s: %w", ownerID, translatePgError(err))
	}
	return collectRecords(rows)
}

// FindRecordsByCorrelationID returns both legs of a transfer, debit first.
func (r *PgxJournalRepository) FindRecordsByCorrelationID(ctx context.Context, correlationID string) ([]domain.TransactionRecord, error) {
	if !isUUID(correlationID) {
		return []domain.TransactionRecord{}, nil
	}
	query := `SELECT ` + recordColumns + ` FROM transactions WHERE correlation_id = $1 ORDER BY transaction_id;`

	rows, err := r.Pool.Query(ctx, query, correlationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find records for correlation %s: %w", correlationID, translatePgError(err))
	}
	return collectRecords(rows)
}

// SnapshotAccount reads the account row and its full journal from one snapshot.
func (r *PgxJournalRepository) SnapshotAccount(ctx context.Context, accountID string) (*domain.AccountSnapshot, error) {
	if !isUUID(accountID) {
		return nil, apperrors.ErrNotFound
	}
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	acc, err := scanAccount(tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1;`, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read account %s: %w", accountID, translatePgError(err))
	}

	rows, err := tx.Query(ctx, `SELECT `+recordColumns+` FROM transactions WHERE account_id = $1 ORDER BY transaction_id;`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal of account %s: %w", accountID, translatePgError(err))
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &domain.AccountSnapshot{Account: *acc, Records: records}, nil
}

func collectRecords(rows pgx.Rows) ([]domain.TransactionRecord, error) {
	defer rows.Close()

	records := make([]domain.TransactionRecord, 0)
	for rows.Next() {
		var m models.TransactionRecord
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Kind, &m.Amount, &m.BalanceAfter, &m.Status, &m.CreatedAt, &m.CorrelationID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", translatePgError(err))
		}
		records = append(records, mapping.ToDomainTransactionRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", translatePgError(err))
	}
	return records, nil
}
