package pgsql

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatePgError(t *testing.T) {
	plain := errors.New("connection refused")

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"lock timeout", &pgconn.PgError{Code: pgLockNotAvailable}, apperrors.ErrBusy},
		{"deadlock", &pgconn.PgError{Code: pgDeadlockDetected}, apperrors.ErrBusy},
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "customers_email_key"}, apperrors.ErrDuplicate},
		{"negative balance", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "accounts_balance_non_negative"}, apperrors.ErrInsufficientFunds},
		{"malformed uuid", &pgconn.PgError{Code: pgInvalidText, Message: `invalid input syntax for type uuid: "abc"`}, apperrors.ErrNotFound},
		{"wrapped lock timeout", errors.Join(errors.New("query failed"), &pgconn.PgError{Code: pgLockNotAvailable}), apperrors.ErrBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translatePgError(tt.err), tt.wantErr)
		})
	}

	assert.Same(t, plain, translatePgError(plain))

	other := &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "transactions_kind_valid"}
	assert.Equal(t, error(other), translatePgError(other))
}

func TestValidUUIDs(t *testing.T) {
	a := "5f0c3c52-5d0e-4f5b-9a4c-0d3f6f1b2a11"
	b := "0b8e2a9e-7c41-4b7e-8f0e-3b8d7b0e9c22"

	assert.Equal(t, []string{a, b}, validUUIDs([]string{a, "abc", b, ""}))
	assert.Empty(t, validUUIDs([]string{"not-a-uuid"}))
}

// Keys that are not UUIDs are answered without a round trip, so a repository
// without a pool is enough here.
func TestMalformedKeysAreNotFound(t *testing.T) {
	ctx := context.Background()
	accounts := &PgxAccountRepository{}
	journal := &PgxJournalRepository{}

	_, err := accounts.FindAccountByID(ctx, "abc")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = journal.SnapshotAccount(ctx, "abc")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	records, err := journal.ListRecordsByAccount(ctx, "abc", 10, nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = journal.FindRecordsByCorrelationID(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Empty(t, records)
}
