package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLockTimeout bounds lock acquisition when no timeout is configured.
const DefaultLockTimeout = 5 * time.Second

// ledgerEngine is the only writer of account balances and journal records.
type ledgerEngine struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	locker      *accountLocker
	publisher   events.EventPublisher
	lockTimeout time.Duration
}

// LedgerOption is a functional option for configuring the ledger engine
type LedgerOption func(*ledgerEngine)

// WithLockTimeout sets how long an operation waits for its account locks.
func WithLockTimeout(d time.Duration) LedgerOption {
	return func(s *ledgerEngine) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithEventPublisher publishes an event after every commit.
func WithEventPublisher(p events.EventPublisher) LedgerOption {
	return func(s *ledgerEngine) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *ledgerEngine) {
		s.now = now
	}
}

func newLedgerEngine(journalRepo portsrepo.JournalRepositoryFacade, options ...LedgerOption) *ledgerEngine {
	s := &ledgerEngine{
		journalRepo: journalRepo,
		locker:      newAccountLocker(),
		publisher:   events.NoopPublisher{},
		lockTimeout: DefaultLockTimeout,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// ledgerService exposes the engine and the transfer coordinator as one facade.
type ledgerService struct {
	portssvc.LedgerEngineSvc
	portssvc.TransferCoordinatorSvc
}

// NewLedgerService creates the ledger engine and the transfer coordinator built on it.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade, options ...LedgerOption) portssvc.LedgerSvcFacade {
	engine := newLedgerEngine(journalRepo, options...)
	return &ledgerService{
		LedgerEngineSvc:        engine,
		TransferCoordinatorSvc: newTransferCoordinator(engine),
	}
}

// leg is one planned balance change inside a commit.
type leg struct {
	accountID string
	kind      domain.TransactionKind
}

// ApplyDeposit credits amount to an account owned by customerID.
func (s *ledgerEngine) ApplyDeposit(ctx context.Context, customerID string, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error) {
	if !domain.IsValidAmount(amount) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, amount.String())
	}

	records, err := s.commit(ctx, customerID, amount, nil, leg{accountID: accountID, kind: domain.Deposit})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Deposit applied",
		slog.String("account_id", accountID),
		slog.Int64("record_id", records[0].ID),
		slog.String("balance_after", records[0].BalanceAfter.StringFixed(domain.MoneyScale)))
	return &records[0], nil
}

// ApplyWithdrawal debits amount from an account owned by customerID.
// The balance may reach exactly zero but never go below it.
func (s *ledgerEngine) ApplyWithdrawal(ctx context.Context, customerID string, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error) {
	if !domain.IsValidAmount(amount) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, amount.String())
	}

	records, err := s.commit(ctx, customerID, amount, nil, leg{accountID: accountID, kind: domain.Withdrawal})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Withdrawal applied",
		slog.String("account_id", accountID),
		slog.Int64("record_id", records[0].ID),
		slog.String("balance_after", records[0].BalanceAfter.StringFixed(domain.MoneyScale)))
	return &records[0], nil
}

// commit is the single atomic commit point of every mutating operation. The first
// leg's account must belong to customerID. Locks are held from before the first
// balance read until the journal append is durable.
func (s *ledgerEngine) commit(ctx context.Context, customerID string, amount decimal.Decimal, correlationID *string, legs ...leg) ([]domain.TransactionRecord, error) {
	accountIDs := make([]string, len(legs))
	for i, l := range legs {
		accountIDs[i] = l.accountID
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	release, err := s.locker.acquire(lockCtx, accountIDs...)
	cancel()
	if err != nil {
		s.LogWarn(ctx, err, "Failed to acquire account locks", slog.Any("account_ids", accountIDs))
		return nil, err
	}
	defer release()

	amount = domain.NormalizeAmount(amount)
	var committed []domain.TransactionRecord

	err = s.journalRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := tx.LockAccountsForUpdate(ctx, accountIDs)
		if err != nil {
			return err
		}
		for _, id := range accountIDs {
			if _, ok := accounts[id]; !ok {
				return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
			}
		}
		if !accounts[legs[0].accountID].IsOwnedBy(customerID) {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, legs[0].accountID)
		}

		// Records never go back in time relative to an account's previous record.
		at := s.Now()
		for _, acc := range accounts {
			at = domain.LaterOf(at, acc.LastActivityAt)
		}

		records := make([]domain.TransactionRecord, 0, len(legs))
		for _, l := range legs {
			acc := accounts[l.accountID]
			newBalance := acc.Balance.Add(l.kind.SignedAmount(amount))
			if newBalance.IsNegative() {
				return fmt.Errorf("%w: account %s holds %s", apperrors.ErrInsufficientFunds, acc.AccountID, acc.Balance.StringFixed(domain.MoneyScale))
			}
			if newBalance.GreaterThanOrEqual(domain.MaxAmount) {
				return fmt.Errorf("%w: balance of account %s would reach %s", apperrors.ErrInvalidAmount, acc.AccountID, newBalance.StringFixed(domain.MoneyScale))
			}
			records = append(records, domain.NewRecord(acc.AccountID, l.kind, amount, newBalance, at, correlationID))
		}

		for _, r := range records {
			if err := tx.UpdateAccountBalance(ctx, r.AccountID, r.BalanceAfter, at); err != nil {
				return err
			}
		}

		committed, err = tx.AppendRecords(ctx, records)
		return err
	})
	if err != nil {
		if isRejection(err) {
			s.LogWarn(ctx, err, "Ledger operation rejected", slog.Any("account_ids", accountIDs))
		} else {
			s.LogError(ctx, err, "Ledger commit failed", slog.Any("account_ids", accountIDs))
		}
		return nil, err
	}

	s.publish(ctx, correlationID, committed)
	return committed, nil
}

// publish emits the event of a committed operation. The commit already happened,
// so a delivery failure is logged and never returned.
func (s *ledgerEngine) publish(ctx context.Context, correlationID *string, records []domain.TransactionRecord) {
	event := domain.LedgerEvent{
		EventID:    uuid.NewString(),
		Records:    records,
		OccurredAt: s.Now(),
	}
	switch {
	case correlationID != nil:
		event.Type = domain.EventTransferCompleted
		event.CorrelationID = *correlationID
	case len(records) > 0 && records[0].Kind == domain.Deposit:
		event.Type = domain.EventDepositApplied
	default:
		event.Type = domain.EventWithdrawalApplied
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger event",
			slog.String("event_id", event.EventID),
			slog.String("event_type", string(event.Type)))
	}
}

// isRejection reports whether err is an expected business rejection.
func isRejection(err error) bool {
	return errors.Is(err, apperrors.ErrInsufficientFunds) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrBusy)
}
