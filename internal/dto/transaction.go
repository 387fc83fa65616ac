package dto

import (
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionResponse defines the data returned for one journal record.
type TransactionResponse struct {
	TransactionID int64                    `json:"transactionID"`
	AccountID     string                   `json:"accountID"`
	Kind          domain.TransactionKind   `json:"kind"`
	Amount        decimal.Decimal          `json:"amount"`
	BalanceAfter  decimal.Decimal          `json:"balanceAfter"`
	Status        domain.TransactionStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
	CorrelationID *string                  `json:"correlationID,omitempty"`
}

// ListTransactionsParams defines query parameters for paging through an account's history.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps one page of history, newest first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// TransferResponse returns both legs of a committed transfer.
type TransferResponse struct {
	CorrelationID string              `json:"correlationID"`
	Debit         TransactionResponse `json:"debit"`
	Credit        TransactionResponse `json:"credit"`
}

// TransferURI binds the correlation id path parameter.
type TransferURI struct {
	CorrelationID string `uri:"correlationID" binding:"required,uuid"`
}

// TransferLegsResponse lists the legs found for a correlation id.
type TransferLegsResponse struct {
	CorrelationID string                `json:"correlationID"`
	Legs          []TransactionResponse `json:"legs"`
}
