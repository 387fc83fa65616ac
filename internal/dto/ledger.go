package dto

import "github.com/shopspring/decimal"

// AmountRequest is the body of a deposit or withdrawal.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"50.00"`
}

// TransferRequest moves money from one of the caller's accounts to another account.
// Exactly one of ReceiverAccountID and RecipientEmail must be set; an email resolves
// to the recipient's chequing account.
type TransferRequest struct {
	SenderAccountID   string          `json:"senderAccountID" binding:"required,uuid"`
	ReceiverAccountID string          `json:"receiverAccountID" binding:"required_without=RecipientEmail,omitempty,uuid"`
	RecipientEmail    string          `json:"recipientEmail" binding:"required_without=ReceiverAccountID,omitempty,email"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
}

// ErrorResponse is the body of every failed request.
// Retryable is true only when nothing was applied and the same request may be sent again.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Retryable bool              `json:"retryable"`
	Fields    map[string]string `json:"fields,omitempty"`
}
