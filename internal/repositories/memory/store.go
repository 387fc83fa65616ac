package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store keeps accounts, the journal and customers in process memory.
// A ledger transaction holds the write lock from start to commit, so readers
// always see a balance together with the record that produced it.
type Store struct {
	mu sync.RWMutex

	accounts  map[string]domain.Account
	records   []domain.TransactionRecord // Ordered by id
	byAccount map[string][]int           // Indexes into records, oldest first
	nextID    int64

	customers   map[string]domain.Customer
	emails      map[string]string // email -> customer id
	phones      map[string]string // phone -> customer id
	credentials map[string]domain.Credential
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]domain.Account),
		byAccount:   make(map[string][]int),
		customers:   make(map[string]domain.Customer),
		emails:      make(map[string]string),
		phones:      make(map[string]string),
		credentials: make(map[string]domain.Credential),
	}
}

// NewRepositoryProvider returns every repository backed by one in-memory store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	s := NewStore()
	return portsrepo.RepositoryProvider{
		AccountRepo:  s,
		JournalRepo:  s,
		CustomerRepo: s,
		Close:        func() {},
	}
}

var (
	_ portsrepo.AccountReader            = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade  = (*Store)(nil)
	_ portsrepo.CustomerRepositoryFacade = (*Store)(nil)
)

// --- Account Store ---

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0)
	for _, acc := range s.accounts {
		if acc.OwnerID == ownerID {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].AccountType > out[j].AccountType // SAVINGS before CHEQUING
		}
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out, nil
}

// --- Journal ---

func (s *Store) ListRecordsByAccount(ctx context.Context, accountID string, limit int, beforeID *int64) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.byAccount[accountID]
	out := make([]domain.TransactionRecord, 0)
	for i := len(idx) - 1; i >= 0; i-- {
		r := s.records[idx[i]]
		if beforeID != nil && r.ID >= *beforeID {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ListRecordsByOwner(ctx context.Context, ownerID string, limit int, beforeID *int64) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TransactionRecord, 0)
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if beforeID != nil && r.ID >= *beforeID {
			continue
		}
		if s.accounts[r.AccountID].OwnerID != ownerID {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) FindRecordsByCorrelationID(ctx context.Context, correlationID string) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TransactionRecord, 0, 2)
	for _, r := range s.records {
		if r.CorrelationID != nil && *r.CorrelationID == correlationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) SnapshotAccount(ctx context.Context, accountID string) (*domain.AccountSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	idx := s.byAccount[accountID]
	records := make([]domain.TransactionRecord, len(idx))
	for i, j := range idx {
		records[i] = s.records[j]
	}
	return &domain.AccountSnapshot{Account: acc, Records: records}, nil
}

// RunInTx stages every write of fn and applies them only if fn succeeds.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{store: s, staged: make(map[string]domain.Account)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for id, acc := range tx.staged {
		s.accounts[id] = acc
	}
	for _, r := range tx.appended {
		s.records = append(s.records, r)
		s.byAccount[r.AccountID] = append(s.byAccount[r.AccountID], len(s.records)-1)
	}
	s.nextID += int64(len(tx.appended))
	return nil
}

// memTx is valid only inside RunInTx, which holds the store's write lock.
type memTx struct {
	store    *Store
	locked   map[string]struct{}
	staged   map[string]domain.Account
	appended []domain.TransactionRecord
}

func (t *memTx) current(id string) (domain.Account, bool) {
	if acc, ok := t.staged[id]; ok {
		return acc, true
	}
	acc, ok := t.store.accounts[id]
	return acc, ok
}

func (t *memTx) LockAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if t.locked == nil {
		t.locked = make(map[string]struct{}, len(accountIDs))
	}
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := t.current(id); ok {
			out[id] = acc
			t.locked[id] = struct{}{}
		}
	}
	return out, nil
}

func (t *memTx) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, at time.Time) error {
	if _, ok := t.locked[accountID]; !ok {
		return fmt.Errorf("account %s updated without being locked", accountID)
	}
	acc, ok := t.current(accountID)
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	acc.Balance = balance
	acc.LastActivityAt = at
	t.staged[accountID] = acc
	return nil
}

func (t *memTx) AppendRecords(ctx context.Context, records []domain.TransactionRecord) ([]domain.TransactionRecord, error) {
	out := make([]domain.TransactionRecord, len(records))
	for i, r := range records {
		r.ID = t.store.nextID + int64(len(t.appended)) + 1
		t.appended = append(t.appended, r)
		out[i] = r
	}
	return out, nil
}

// --- Customers ---

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer, credential domain.Credential, accounts []domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[customer.Email]; ok {
		return fmt.Errorf("%w: email %s", apperrors.ErrDuplicate, customer.Email)
	}
	if _, ok := s.phones[customer.Phone]; ok {
		return fmt.Errorf("%w: phone %s", apperrors.ErrDuplicate, customer.Phone)
	}
	if _, ok := s.credentials[credential.Username]; ok {
		return fmt.Errorf("%w: username %s", apperrors.ErrDuplicate, credential.Username)
	}
	for _, acc := range accounts {
		if _, ok := s.accounts[acc.AccountID]; ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, acc.AccountID)
		}
	}

	s.customers[customer.CustomerID] = customer
	s.emails[customer.Email] = customer.CustomerID
	s.phones[customer.Phone] = customer.CustomerID
	s.credentials[credential.Username] = credential
	for _, acc := range accounts {
		s.accounts[acc.AccountID] = acc
	}
	return nil
}

func (s *Store) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := s.customers[id]
	return &c, nil
}

func (s *Store) FindCredentialByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.credentials[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *Store) RecordLogin(ctx context.Context, username string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.credentials[username]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.LastLoginAt = &at
	s.credentials[username] = c
	return nil
}
