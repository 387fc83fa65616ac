package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/rivanna_bank_ledger/internal/models"
	"github.com/SscSPs/rivanna_bank_ledger/internal/utils/mapping"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store keeps the ledger in a single SQLite database. The connection pool is
// limited to one connection, so every write transaction is serialized.
type Store struct {
	db *sql.DB
}

// Compile-time check: *Store must satisfy every repository port.
var (
	_ portsrepo.AccountReader            = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade  = (*Store)(nil)
	_ portsrepo.CustomerRepositoryFacade = (*Store)(nil)
)

// NewStore creates the schema if needed and returns a store over db.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewRepositoryProvider returns every repository backed by one SQLite store.
func NewRepositoryProvider(ctx context.Context, db *sql.DB) (portsrepo.RepositoryProvider, error) {
	s, err := NewStore(ctx, db)
	if err != nil {
		return portsrepo.RepositoryProvider{}, err
	}
	return portsrepo.RepositoryProvider{
		AccountRepo:  s,
		JournalRepo:  s,
		CustomerRepo: s,
		Close:        func() { _ = s.db.Close() },
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// translateError maps SQLite constraint and locking failures to domain errors.
func translateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", apperrors.ErrBusy, err)
	}
	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) {
		return err
	}
	switch {
	case sqErr.Code == sqlite3.ErrBusy || sqErr.Code == sqlite3.ErrLocked:
		return fmt.Errorf("%w: %v", apperrors.ErrBusy, err)
	case sqErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %v", apperrors.ErrDuplicate, err)
	}
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var m models.Account
	var opened, lastActivity string
	if err := row.Scan(&m.AccountID, &m.OwnerID, &m.AccountType, &m.Balance, &opened, &lastActivity); err != nil {
		return nil, err
	}
	var err error
	if m.OpenedAt, err = parseTime(opened); err != nil {
		return nil, fmt.Errorf("bad opened_at %q: %w", opened, err)
	}
	if m.LastActivityAt, err = parseTime(lastActivity); err != nil {
		return nil, fmt.Errorf("bad last_activity_at %q: %w", lastActivity, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func collectRecords(rows *sql.Rows) ([]domain.TransactionRecord, error) {
	defer rows.Close()

	records := make([]domain.TransactionRecord, 0)
	for rows.Next() {
		var m models.TransactionRecord
		var createdAt string
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Kind, &m.Amount, &m.BalanceAfter, &m.Status, &createdAt, &m.CorrelationID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		t, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
		}
		m.CreatedAt = t
		records = append(records, mapping.ToDomainTransactionRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return records, nil
}

// --- Accounts ---

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := scanAccount(s.db.QueryRowContext(ctx, queryGetAccountByID, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return acc, nil
}

func (s *Store) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, queryListAccountsByOwner, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, 2)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

// --- Journal ---

// RunInTx runs fn inside one SQLite transaction and commits only if fn succeeds.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", translateError(err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &sqliteTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}
	return nil
}

type sqliteTx struct {
	tx *sql.Tx
}

// LockAccountsForUpdate reads the accounts inside the write transaction. The
// single connection already excludes every other writer.
func (t *sqliteTx) LockAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(accountIDs)), ",")
	args := make([]any, len(accountIDs))
	for i, id := range accountIDs {
		args[i] = id
	}

	rows, err := t.tx.QueryContext(ctx, queryLockAccountsPrefix+"("+placeholders+") ORDER BY account_id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", translateError(err))
	}
	defer rows.Close()

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account: %w", err)
		}
		accounts[acc.AccountID] = *acc
	}
	return accounts, rows.Err()
}

func (t *sqliteTx) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, at time.Time) error {
	res, err := t.tx.ExecContext(ctx, queryUpdateAccountBalance, balance.StringFixed(domain.MoneyScale), formatTime(at), accountID)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", accountID, translateError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return nil
}

func (t *sqliteTx) AppendRecords(ctx context.Context, records []domain.TransactionRecord) ([]domain.TransactionRecord, error) {
	out := make([]domain.TransactionRecord, len(records))
	for i, rec := range records {
		m := mapping.ToModelTransactionRecord(rec)
		res, err := t.tx.ExecContext(ctx, queryInsertRecord,
			m.AccountID,
			m.Kind,
			m.Amount.StringFixed(domain.MoneyScale),
			m.BalanceAfter.StringFixed(domain.MoneyScale),
			m.Status,
			formatTime(m.CreatedAt),
			m.CorrelationID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to append record for account %s: %w", rec.AccountID, translateError(err))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read record id: %w", err)
		}
		rec.ID = id
		out[i] = rec
	}
	return out, nil
}

// ListRecordsByAccount returns records newest first. A limit of zero or less returns all of them.
func (s *Store) ListRecordsByAccount(ctx context.Context, accountID string, limit int, beforeID *int64) ([]domain.TransactionRecord, error) {
	var before int64
	if beforeID != nil {
		before = *beforeID
	}
	if limit <= 0 {
		limit = -1 // SQLite reads a negative LIMIT as unbounded
	}

	rows, err := s.db.QueryContext(ctx, queryListRecordsByAccount, accountID, before, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for account %s: %w", accountID, err)
	}
	return collectRecords(rows)
}

// ListRecordsByOwner returns the records of all of ownerID's accounts, newest first.
func (s *Store) ListRecordsByOwner(ctx context.Context, ownerID string, limit int, beforeID *int64) ([]domain.TransactionRecord, error) {
	var before int64
	if beforeID != nil {
		before = *beforeID
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, queryListRecordsByOwner, ownerID, before, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for owner %s: %w", ownerID, err)
	}
	return collectRecords(rows)
}

func (s *Store) FindRecordsByCorrelationID(ctx context.Context, correlationID string) ([]domain.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryRecordsByCorrelation, correlationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find records for correlation %s: %w", correlationID, err)
	}
	return collectRecords(rows)
}

// SnapshotAccount reads the account and its journal inside one transaction.
func (s *Store) SnapshotAccount(ctx context.Context, accountID string) (*domain.AccountSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", translateError(err))
	}
	defer func() { _ = tx.Rollback() }()

	acc, err := scanAccount(tx.QueryRowContext(ctx, queryGetAccountByID, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read account %s: %w", accountID, err)
	}

	rows, err := tx.QueryContext(ctx, queryJournalOfAccount, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal of account %s: %w", accountID, err)
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}
	return &domain.AccountSnapshot{Account: *acc, Records: records}, nil
}

// --- Customers ---

// CreateCustomer inserts the customer, its login and its accounts in one transaction.
func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer, credential domain.Credential, accounts []domain.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", translateError(err))
	}
	defer func() { _ = tx.Rollback() }()

	mc := mapping.ToModelCustomer(customer)
	if _, err := tx.ExecContext(ctx, queryInsertCustomer,
		mc.CustomerID, mc.FullName, mc.Email, mc.Phone, mc.Address, formatTime(mc.CreatedAt)); err != nil {
		return fmt.Errorf("failed to insert customer: %w", translateError(err))
	}
	if _, err := tx.ExecContext(ctx, queryInsertLogin,
		credential.Username, credential.PasswordHash, credential.CustomerID); err != nil {
		return fmt.Errorf("failed to insert login: %w", translateError(err))
	}
	for _, acc := range accounts {
		ma := mapping.ToModelAccount(acc)
		if _, err := tx.ExecContext(ctx, queryInsertAccount,
			ma.AccountID, ma.OwnerID, ma.AccountType, ma.Balance.StringFixed(domain.MoneyScale),
			formatTime(ma.OpenedAt), formatTime(ma.LastActivityAt)); err != nil {
			return fmt.Errorf("failed to insert account: %w", translateError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit customer: %w", translateError(err))
	}
	return nil
}

func (s *Store) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.findCustomer(ctx, queryGetCustomerByID, customerID)
}

func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return s.findCustomer(ctx, queryGetCustomerByEmail, email)
}

func (s *Store) findCustomer(ctx context.Context, query string, arg string) (*domain.Customer, error) {
	var m models.Customer
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&m.CustomerID, &m.FullName, &m.Email, &m.Phone, &m.Address, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	c := mapping.ToDomainCustomer(m)
	return &c, nil
}

func (s *Store) FindCredentialByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	var m models.Login
	var lastLogin sql.NullString
	err := s.db.QueryRowContext(ctx, queryGetLoginByUsername, username).Scan(&m.Username, &m.PasswordHash, &m.CustomerID, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find login %s: %w", username, err)
	}
	if lastLogin.Valid {
		t, err := parseTime(lastLogin.String)
		if err != nil {
			return nil, fmt.Errorf("bad last_login_at %q: %w", lastLogin.String, err)
		}
		m.LastLoginAt = &t
	}
	c := mapping.ToDomainCredential(m)
	return &c, nil
}

func (s *Store) RecordLogin(ctx context.Context, username string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, queryRecordLogin, formatTime(at), username)
	if err != nil {
		return fmt.Errorf("failed to record login for %s: %w", username, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
