package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/utils/mapping"
	"github.com/SscSPs/rivanna_bank_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const (
	defaultHistoryPageSize = 20
	maxHistoryPageSize     = 100
)

type queryService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.JournalReader
}

// NewQueryService creates the read-only projection service.
func NewQueryService(accountRepo portsrepo.AccountReader, journalRepo portsrepo.JournalReader) portssvc.QuerySvc {
	return &queryService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

var _ portssvc.QuerySvc = (*queryService)(nil)

// ownedAccount loads an account and hides it when it belongs to someone else.
func (s *queryService) ownedAccount(ctx context.Context, customerID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}
		return nil, err
	}
	if !account.IsOwnedBy(customerID) {
		s.LogWarn(ctx, apperrors.ErrAccountNotFound, "Customer requested an account it does not own",
			slog.String("account_id", accountID))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return account, nil
}

func (s *queryService) History(ctx context.Context, customerID string, accountID string) ([]domain.TransactionRecord, error) {
	if _, err := s.ownedAccount(ctx, customerID, accountID); err != nil {
		return nil, err
	}
	records, err := s.journalRepo.ListRecordsByAccount(ctx, accountID, 0, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to list history", slog.String("account_id", accountID))
		return nil, err
	}
	return records, nil
}

func (s *queryService) HistoryPage(ctx context.Context, customerID string, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.ownedAccount(ctx, customerID, accountID); err != nil {
		return nil, err
	}

	resp, err := pageRecords(params, func(limit int, beforeID *int64) ([]domain.TransactionRecord, error) {
		return s.journalRepo.ListRecordsByAccount(ctx, accountID, limit, beforeID)
	})
	if err != nil && !errors.Is(err, apperrors.ErrValidation) {
		s.LogError(ctx, err, "Failed to list history page", slog.String("account_id", accountID))
	}
	return resp, err
}

func (s *queryService) CustomerHistory(ctx context.Context, customerID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	resp, err := pageRecords(params, func(limit int, beforeID *int64) ([]domain.TransactionRecord, error) {
		return s.journalRepo.ListRecordsByOwner(ctx, customerID, limit, beforeID)
	})
	if err != nil && !errors.Is(err, apperrors.ErrValidation) {
		s.LogError(ctx, err, "Failed to list customer history")
	}
	return resp, err
}

// pageRecords reads one page through fetch, newest first, and returns the cursor of the next page.
func pageRecords(params dto.ListTransactionsParams, fetch func(limit int, beforeID *int64) ([]domain.TransactionRecord, error)) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	if limit > maxHistoryPageSize {
		limit = maxHistoryPageSize
	}

	var beforeID *int64
	if params.NextToken != nil && *params.NextToken != "" {
		id, err := pagination.DecodeRecordToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		beforeID = &id
	}

	// Fetch one extra record to learn whether another page exists.
	records, err := fetch(limit+1, beforeID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{}
	if len(records) > limit {
		records = records[:limit]
		token := pagination.EncodeRecordToken(records[len(records)-1].ID)
		resp.NextToken = &token
	}
	resp.Transactions = mapping.ToTransactionResponses(records)
	return resp, nil
}

func (s *queryService) CurrentBalance(ctx context.Context, customerID string, accountID string) (decimal.Decimal, error) {
	account, err := s.ownedAccount(ctx, customerID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (s *queryService) Reconcile(ctx context.Context, customerID string, accountID string) (*domain.ReconciliationReport, error) {
	if _, err := s.ownedAccount(ctx, customerID, accountID); err != nil {
		return nil, err
	}

	snapshot, err := s.journalRepo.SnapshotAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to snapshot account", slog.String("account_id", accountID))
		return nil, err
	}

	report := domain.Reconcile(*snapshot, s.Now())
	if !report.Consistent {
		s.LogError(ctx, apperrors.ErrLedgerDivergence, "Stored balance disagrees with journal",
			slog.String("account_id", accountID),
			slog.String("stored", report.StoredBalance.String()),
			slog.String("latest_balance_after", report.LatestBalance.String()),
			slog.String("replayed", report.ReplayedBalance.String()))
		return &report, fmt.Errorf("%w: account %s", apperrors.ErrLedgerDivergence, accountID)
	}
	return &report, nil
}

func (s *queryService) TransferLegs(ctx context.Context, customerID string, correlationID string) ([]domain.TransactionRecord, error) {
	records, err := s.journalRepo.FindRecordsByCorrelationID(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.NewNotFoundError("transfer " + correlationID)
	}

	// Either party of the transfer may look it up.
	for _, r := range records {
		account, err := s.accountRepo.FindAccountByID(ctx, r.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if account.IsOwnedBy(customerID) {
			return records, nil
		}
	}
	return nil, apperrors.NewNotFoundError("transfer " + correlationID)
}
