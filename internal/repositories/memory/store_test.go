package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	now   time.Time
}

func (suite *StoreTestSuite) SetupTest() {
	suite.store = NewStore()
	suite.ctx = context.Background()
	suite.now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	err := suite.store.CreateCustomer(suite.ctx,
		domain.Customer{CustomerID: "cust-1", Email: "a@example.com", Phone: "111"},
		domain.Credential{Username: "alice", CustomerID: "cust-1"},
		[]domain.Account{
			{AccountID: "acc-1", OwnerID: "cust-1", AccountType: domain.Savings, OpenedAt: suite.now},
			{AccountID: "acc-2", OwnerID: "cust-1", AccountType: domain.Chequing, OpenedAt: suite.now},
		})
	suite.Require().NoError(err)
}

func (suite *StoreTestSuite) deposit(accountID string, amount string) domain.TransactionRecord {
	var out []domain.TransactionRecord
	err := suite.store.RunInTx(suite.ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := tx.LockAccountsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		amt := decimal.RequireFromString(amount)
		newBalance := accounts[accountID].Balance.Add(amt)
		if err := tx.UpdateAccountBalance(ctx, accountID, newBalance, suite.now); err != nil {
			return err
		}
		out, err = tx.AppendRecords(ctx, []domain.TransactionRecord{
			domain.NewRecord(accountID, domain.Deposit, amt, newBalance, suite.now, nil),
		})
		return err
	})
	suite.Require().NoError(err)
	return out[0]
}

func (suite *StoreTestSuite) TestRunInTx_CommitAssignsIncreasingIDs() {
	first := suite.deposit("acc-1", "10.00")
	second := suite.deposit("acc-2", "5.00")
	third := suite.deposit("acc-1", "1.00")

	suite.Equal(int64(1), first.ID)
	suite.Equal(int64(2), second.ID)
	suite.Equal(int64(3), third.ID)

	acc, err := suite.store.FindAccountByID(suite.ctx, "acc-1")
	suite.Require().NoError(err)
	suite.True(acc.Balance.Equal(decimal.RequireFromString("11.00")))
}

func (suite *StoreTestSuite) TestRunInTx_RollbackLeavesNoTrace() {
	suite.deposit("acc-1", "10.00")

	boom := errors.New("boom")
	err := suite.store.RunInTx(suite.ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.LockAccountsForUpdate(ctx, []string{"acc-1"}); err != nil {
			return err
		}
		if err := tx.UpdateAccountBalance(ctx, "acc-1", decimal.NewFromInt(999), suite.now); err != nil {
			return err
		}
		if _, err := tx.AppendRecords(ctx, []domain.TransactionRecord{{AccountID: "acc-1"}}); err != nil {
			return err
		}
		return boom
	})
	suite.ErrorIs(err, boom)

	snapshot, err := suite.store.SnapshotAccount(suite.ctx, "acc-1")
	suite.Require().NoError(err)
	suite.True(snapshot.Account.Balance.Equal(decimal.NewFromInt(10)))
	suite.Len(snapshot.Records, 1)

	// Ids stay contiguous after a rollback.
	next := suite.deposit("acc-1", "1.00")
	suite.Equal(int64(2), next.ID)
}

func (suite *StoreTestSuite) TestUpdateWithoutLockFails() {
	err := suite.store.RunInTx(suite.ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.UpdateAccountBalance(ctx, "acc-1", decimal.NewFromInt(1), suite.now)
	})
	suite.Error(err)
}

func (suite *StoreTestSuite) TestListRecordsByAccount_NewestFirstWithCursor() {
	for _, amt := range []string{"1.00", "2.00", "3.00", "4.00"} {
		suite.deposit("acc-1", amt)
	}
	suite.deposit("acc-2", "9.00")

	all, err := suite.store.ListRecordsByAccount(suite.ctx, "acc-1", 0, nil)
	suite.Require().NoError(err)
	suite.Require().Len(all, 4)
	suite.Equal(int64(4), all[0].ID)
	suite.Equal(int64(1), all[3].ID)

	before := int64(3)
	page, err := suite.store.ListRecordsByAccount(suite.ctx, "acc-1", 1, &before)
	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Equal(int64(2), page[0].ID)
}

func (suite *StoreTestSuite) TestListRecordsByOwner_AllAccountsNewestFirst() {
	err := suite.store.CreateCustomer(suite.ctx,
		domain.Customer{CustomerID: "cust-2", Email: "b@example.com", Phone: "222"},
		domain.Credential{Username: "bob", CustomerID: "cust-2"},
		[]domain.Account{{AccountID: "acc-3", OwnerID: "cust-2", AccountType: domain.Chequing, OpenedAt: suite.now}})
	suite.Require().NoError(err)

	first := suite.deposit("acc-1", "1.00")
	suite.deposit("acc-3", "2.00")
	third := suite.deposit("acc-2", "3.00")

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

func (suite *StoreTestSuite) TestLockMissingAccount() {
	err := suite.store.RunInTx(suite.ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := tx.LockAccountsForUpdate(ctx, []string{"acc-1", "missing"})
		suite.Len(accounts, 1)
		return err
	})
	suite.NoError(err)
}

func (suite *StoreTestSuite) TestCreateCustomer_Duplicates() {
	tests := []struct {
		name     string
		customer domain.Customer
		username string
	}{
		{"email", domain.Customer{CustomerID: "c2", Email: "a@example.com", Phone: "222"}, "bob"},
		{"phone", domain.Customer{CustomerID: "c2", Email: "b@example.com", Phone: "111"}, "bob"},
		{"username", domain.Customer{CustomerID: "c2", Email: "b@example.com", Phone: "222"}, "alice"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := suite.store.CreateCustomer(suite.ctx, tt.customer, domain.Credential{Username: tt.username, CustomerID: "c2"}, nil)
			suite.ErrorIs(err, apperrors.ErrDuplicate)
		})
	}
}

func (suite *StoreTestSuite) TestRecordLogin() {
	suite.Require().NoError(suite.store.RecordLogin(suite.ctx, "alice", suite.now))
	cred, err := suite.store.FindCredentialByUsername(suite.ctx, "alice")
	suite.Require().NoError(err)
	suite.Require().NotNil(cred.LastLoginAt)
	suite.Equal(suite.now, *cred.LastLoginAt)

	suite.ErrorIs(suite.store.RecordLogin(suite.ctx, "nobody", suite.now), apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestListAccountsByOwner() {
	accounts, err := suite.store.ListAccountsByOwner(suite.ctx, "cust-1")
	suite.Require().NoError(err)
	suite.Require().Len(accounts, 2)
	suite.Equal(domain.Savings, accounts[0].AccountType)

	none, err := suite.store.ListAccountsByOwner(suite.ctx, "nobody")
	suite.Require().NoError(err)
	suite.Empty(none)
}

func TestStore(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
