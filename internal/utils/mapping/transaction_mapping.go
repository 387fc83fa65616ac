package mapping

import (
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/models"
)

// ToModelTransactionRecord converts a domain TransactionRecord to a model TransactionRecord
func ToModelTransactionRecord(d domain.TransactionRecord) models.TransactionRecord {
	return models.TransactionRecord{
		ID:            d.ID,
		AccountID:     d.AccountID,
		Kind:          string(d.Kind),
		Amount:        d.Amount,
		BalanceAfter:  d.BalanceAfter,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt,
		CorrelationID: d.CorrelationID,
	}
}

// ToDomainTransactionRecord converts a model TransactionRecord to a domain TransactionRecord
func ToDomainTransactionRecord(m models.TransactionRecord) domain.TransactionRecord {
	return domain.TransactionRecord{
		ID:            m.ID,
		AccountID:     m.AccountID,
		Kind:          domain.TransactionKind(m.Kind),
		Amount:        m.Amount,
		BalanceAfter:  m.BalanceAfter,
		Status:        domain.TransactionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		CorrelationID: m.CorrelationID,
	}
}

// ToTransactionResponse converts a domain TransactionRecord to its API representation.
func ToTransactionResponse(d domain.TransactionRecord) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID: d.ID,
		AccountID:     d.AccountID,
		Kind:          d.Kind,
		Amount:        d.Amount.Round(domain.MoneyScale),
		BalanceAfter:  d.BalanceAfter.Round(domain.MoneyScale),
		Status:        d.Status,
		CreatedAt:     d.CreatedAt,
		CorrelationID: d.CorrelationID,
	}
}

// ToTransactionResponses converts a slice of records, preserving order.
func ToTransactionResponses(records []domain.TransactionRecord) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, len(records))
	for i, r := range records {
		out[i] = ToTransactionResponse(r)
	}
	return out
}

// ToTransferResponse converts a committed transfer to its API representation.
func ToTransferResponse(r domain.TransferResult) dto.TransferResponse {
	return dto.TransferResponse{
		CorrelationID: r.CorrelationID,
		Debit:         ToTransactionResponse(r.Debit),
		Credit:        ToTransactionResponse(r.Credit),
	}
}
