package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SQLiteStoreTestSuite struct {
	suite.Suite
	db    *sql.DB
	store *Store
	ctx   context.Context
	now   time.Time
}

func (suite *SQLiteStoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2025, 3, 4, 5, 6, 7, 890, time.UTC)

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	suite.Require().NoError(err)
	suite.db = db

	suite.store, err = NewStore(suite.ctx, db)
	suite.Require().NoError(err)

	addr := "1 Main St"
	err = suite.store.CreateCustomer(suite.ctx,
		domain.Customer{CustomerID: "cust-1", FullName: "Alice", Email: "a@example.com", Phone: "111", Address: addr, CreatedAt: suite.now},
		domain.Credential{Username: "alice", PasswordHash: "hash", CustomerID: "cust-1"},
		[]domain.Account{
			{AccountID: "acc-2", OwnerID: "cust-1", AccountType: domain.Chequing, OpenedAt: suite.now, LastActivityAt: suite.now},
			{AccountID: "acc-1", OwnerID: "cust-1", AccountType: domain.Savings, OpenedAt: suite.now, LastActivityAt: suite.now},
		})
	suite.Require().NoError(err)
}

func (suite *SQLiteStoreTestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *SQLiteStoreTestSuite) apply(accountID string, kind domain.TransactionKind, amount string, corrID *string) domain.TransactionRecord {
	var out []domain.TransactionRecord
	err := suite.store.RunInTx(suite.ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := tx.LockAccountsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		amt := decimal.RequireFromString(amount)
		newBalance := accounts[accountID].Balance.Add(kind.SignedAmount(amt))
		if err := tx.UpdateAccountBalance(ctx, accountID, newBalance, suite.now); err != nil {
			return err
		}
		out, err = tx.AppendRecords(ctx, []domain.TransactionRecord{
			domain.NewRecord(accountID, kind, amt, newBalance, suite.now, corrID),
		})
		return err
	})
	suite.Require().NoError(err)
	return out[0]
}

func (suite *SQLiteStoreTestSuite) TestAccountsRoundTrip() {
	acc, err := suite.store.FindAccountByID(suite.ctx, "acc-1")
	suite.Require().NoError(err)
	suite.Equal("cust-1", acc.OwnerID)
	suite.Equal(domain.Savings, acc.AccountType)
	suite.True(acc.Balance.IsZero())
	suite.True(acc.OpenedAt.Equal(suite.now))

	_, err = suite.store.FindAccountByID(suite.ctx, "nope")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	accounts, err := suite.store.ListAccountsByOwner(suite.ctx, "cust-1")
	suite.Require().NoError(err)
	suite.Require().Len(accounts, 2)
	suite.Equal(domain.Savings, accounts[0].AccountType)
	suite.Equal(domain.Chequing, accounts[1].AccountType)
}

func (suite *SQLiteStoreTestSuite) TestJournalAppendAndRead() {
	first := suite.apply("acc-1", domain.Deposit, "10.50", nil)
	second := suite.apply("acc-1", domain.Withdrawal, "0.25", nil)
	suite.Less(first.ID, second.ID)

	acc, err := suite.store.FindAccountByID(suite.ctx, "acc-1")
	suite.Require().NoError(err)
	suite.True(acc.Balance.Equal(decimal.RequireFromString("10.25")))

	records, err := suite.store.ListRecordsByAccount(suite.ctx, "acc-1", 0, nil)
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal(second.ID, records[0].ID)
	suite.True(records[0].Amount.Equal(decimal.RequireFromString("-0.25")))
	suite.True(records[0].CreatedAt.Equal(suite.now))

	page, err := suite.store.ListRecordsByAccount(suite.ctx, "acc-1", 1, &second.ID)
	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Equal(first.ID, page[0].ID)

	snapshot, err := suite.store.SnapshotAccount(suite.ctx, "acc-1")
	suite.Require().NoError(err)
	suite.Len(snapshot.Records, 2)
	suite.True(domain.Reconcile(*snapshot, suite.now).Consistent)
}

func (suite *SQLiteStoreTestSuite) TestListRecordsByOwner_AllAccountsNewestFirst() {
	err := suite.store.CreateCustomer(suite.ctx,
		domain.Customer{CustomerID: "cust-2", FullName: "Bob", Email: "b@example.com", Phone: "222", CreatedAt: suite.now},
		domain.Credential{Username: "bob", PasswordHash: "hash", CustomerID: "cust-2"},
		[]domain.Account{{AccountID: "acc-3", OwnerID: "cust-2", AccountType: domain.Chequing, OpenedAt: suite.now, LastActivityAt: suite.now}})
	suite.Require().NoError(err)

	first := suite.apply("acc-1", domain.Deposit, "1.00", nil)
	suite.apply("acc-3", domain.Deposit, "2.00", nil)
	third := suite.apply("acc-2", domain.Deposit, "3.00", nil)

	records, err := suite.store.ListRecordsByOwner(suite.ctx, "cust-1", 0, nil)
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal(third.ID, records[0].ID)
	suite.Equal(first.ID, records[1].ID)

	page, err := suite.store.ListRecordsByOwner(suite.ctx, "cust-1", 1, &third.ID)
	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Equal(first.ID, page[0].ID)

	none, err := suite.store.ListRecordsByOwner(suite.ctx, "nobody", 0, nil)
	suite.Require().NoError(err)
	suite.Empty(none)
}

func (suite *SQLiteStoreTestSuite) TestCorrelationLookup() {
	corr := "corr-1"
	suite.apply("acc-1", domain.Deposit, "5.00", nil)
	debit := suite.apply("acc-1", domain.TransferOut, "2.00", &corr)
	credit := suite.apply("acc-2", domain.TransferIn, "2.00", &corr)

	legs, err := suite.store.FindRecordsByCorrelationID(suite.ctx, corr)
	suite.Require().NoError(err)
	suite.Require().Len(legs, 2)
	suite.Equal(debit.ID, legs[0].ID)
	suite.Equal(credit.ID, legs[1].ID)
	suite.Require().NotNil(legs[1].CorrelationID)
	suite.Equal(corr, *legs[1].CorrelationID)
}

func (suite *SQLiteStoreTestSuite) TestRollbackLeavesNoTrace() {
	boom := errors.New("boom")
	err := suite.store.RunInTx(suite.ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.UpdateAccountBalance(ctx, "acc-1", decimal.NewFromInt(99), suite.now); err != nil {
			return err
		}
		if _, err := tx.AppendRecords(ctx, []domain.TransactionRecord{
			domain.NewRecord("acc-1", domain.Deposit, decimal.NewFromInt(99), decimal.NewFromInt(99), suite.now, nil),
		}); err != nil {
			return err
		}
		return boom
	})
	suite.ErrorIs(err, boom)

	acc, err := suite.store.FindAccountByID(suite.ctx, "acc-1")
	suite.Require().NoError(err)
	suite.True(acc.Balance.IsZero())
	records, err := suite.store.ListRecordsByAccount(suite.ctx, "acc-1", 0, nil)
	suite.Require().NoError(err)
	suite.Empty(records)
}

func (suite *SQLiteStoreTestSuite) TestLockMissingAccount() {
	err := suite.store.RunInTx(suite.ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := tx.LockAccountsForUpdate(ctx, []string{"acc-1", "ghost"})
		suite.Require().NoError(err)
		suite.Len(accounts, 1)
		_, ok := accounts["ghost"]
		suite.False(ok)
		return tx.UpdateAccountBalance(ctx, "ghost", decimal.Zero, suite.now)
	})
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (suite *SQLiteStoreTestSuite) TestCustomers() {
	c, err := suite.store.FindCustomerByEmail(suite.ctx, "a@example.com")
	suite.Require().NoError(err)
	suite.Equal("cust-1", c.CustomerID)
	suite.Equal("1 Main St", c.Address)

	_, err = suite.store.FindCustomerByID(suite.ctx, "ghost")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	err = suite.store.CreateCustomer(suite.ctx,
		domain.Customer{CustomerID: "cust-2", Email: "a@example.com", Phone: "222", CreatedAt: suite.now},
		domain.Credential{Username: "bob", CustomerID: "cust-2"},
		nil)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	_, err = suite.store.FindCustomerByID(suite.ctx, "cust-2")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	cred, err := suite.store.FindCredentialByUsername(suite.ctx, "alice")
	suite.Require().NoError(err)
	suite.Nil(cred.LastLoginAt)

	suite.Require().NoError(suite.store.RecordLogin(suite.ctx, "alice", suite.now))
	cred, err = suite.store.FindCredentialByUsername(suite.ctx, "alice")
	suite.Require().NoError(err)
	suite.Require().NotNil(cred.LastLoginAt)
	suite.True(cred.LastLoginAt.Equal(suite.now))

	suite.ErrorIs(suite.store.RecordLogin(suite.ctx, "ghost", suite.now), apperrors.ErrNotFound)
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, new(SQLiteStoreTestSuite))
}
