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
)

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customers and their logins.
func newPgxCustomerRepository(pool *pgxpool.Pool) *PgxCustomerRepository {
	return &PgxCustomerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCustomerRepository implements portsrepo.CustomerRepositoryFacade
var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

// CreateCustomer inserts the customer, its login and its accounts in one transaction.
func (r *PgxCustomerRepository) CreateCustomer(ctx context.Context, customer domain.Customer, credential domain.Credential, accounts []domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	mc := mapping.ToModelCustomer(customer)
	_, err = tx.Exec(ctx, `
		INSERT INTO customers (customer_id, full_name, email, phone, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		mc.CustomerID, mc.FullName, mc.Email, mc.Phone, mc.Address, mc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", translatePgError(err))
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO logins (username, password_hash, customer_id)
		VALUES ($1, $2, $3);`,
		credential.Username, credential.PasswordHash, credential.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to insert login: %w", translatePgError(err))
	}

	batch := &pgx.Batch{}
	for _, acc := range accounts {
		ma := mapping.ToModelAccount(acc)
		batch.Queue(`
			INSERT INTO accounts (account_id, owner_id, account_type, balance, opened_at, last_activity_at)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			ma.AccountID, ma.OwnerID, ma.AccountType, ma.Balance, ma.OpenedAt, ma.LastActivityAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert accounts: %w", translatePgError(err))
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	return r.findCustomer(ctx, "customer_id", customerID)
}

func (r *PgxCustomerRepository) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.findCustomer(ctx, "email", email)
}

func (r *PgxCustomerRepository) findCustomer(ctx context.Context, column string, value string) (*domain.Customer, error) {
	query := `SELECT customer_id, full_name, email, phone, address, created_at FROM customers WHERE ` + column + ` = $1;`

	var m models.Customer
	err := r.Pool.QueryRow(ctx, query, value).Scan(&m.CustomerID, &m.FullName, &m.Email, &m.Phone, &m.Address, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by %s: %w", column, err)
	}
	c := mapping.ToDomainCustomer(m)
	return &c, nil
}

func (r *PgxCustomerRepository) FindCredentialByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	query := `SELECT username, password_hash, customer_id, last_login_at FROM logins WHERE username = $1;`

	var m models.Login
	err := r.Pool.QueryRow(ctx, query, username).Scan(&m.Username, &m.PasswordHash, &m.CustomerID, &m.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find login %s: %w", username, err)
	}
	c := mapping.ToDomainCredential(m)
	return &c, nil
}

func (r *PgxCustomerRepository) RecordLogin(ctx context.Context, username string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE logins SET last_login_at = $2 WHERE username = $1;`, username, at)
	if err != nil {
		return fmt.Errorf("failed to record login for %s: %w", username, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
