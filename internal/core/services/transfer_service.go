package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/google/uuid"
)

// transferCoordinator runs the debit and credit of a transfer as one commit on the engine.
type transferCoordinator struct {
	engine *ledgerEngine
}

func newTransferCoordinator(engine *ledgerEngine) *transferCoordinator {
	return &transferCoordinator{engine: engine}
}

// Transfer moves intent.Amount from the sender to the receiver. Both legs share one
// correlation id and commit together, or nothing is written.
func (s *transferCoordinator) Transfer(ctx context.Context, customerID string, intent domain.TransferIntent) (*domain.TransferResult, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	correlationID := uuid.NewString()
	records, err := s.engine.commit(ctx, customerID, intent.Amount, &correlationID,
		leg{accountID: intent.SenderAccountID, kind: domain.TransferOut},
		leg{accountID: intent.ReceiverAccountID, kind: domain.TransferIn},
	)
	if err != nil {
		return nil, err
	}

	s.engine.LogInfo(ctx, "Transfer completed",
		slog.String("correlation_id", correlationID),
		slog.String("sender_account_id", intent.SenderAccountID),
		slog.String("receiver_account_id", intent.ReceiverAccountID),
		slog.String("amount", intent.Amount.StringFixed(domain.MoneyScale)))

	return &domain.TransferResult{
		CorrelationID: correlationID,
		Debit:         records[0],
		Credit:        records[1],
	}, nil
}
