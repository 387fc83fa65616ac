package dto

import (
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID   string             `json:"accountID"`
	OwnerID     string             `json:"ownerID"`
	AccountType domain.AccountType `json:"accountType"`
	Balance     decimal.Decimal    `json:"balance"`
	OpenedAt    time.Time          `json:"openedAt"`
}

// ListAccountsParams defines query parameters for listing the caller's accounts.
type ListAccountsParams struct {
	AccountType string `form:"type" binding:"omitempty,oneof=SAVINGS CHEQUING"`
}

// ListAccountsResponse wraps the caller's accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountURI binds the account id path parameter.
type AccountURI struct {
	AccountID string `uri:"accountID" binding:"required,uuid"`
}

// BalanceResponse is the current balance of one account.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   acc.AccountID,
		OwnerID:     acc.OwnerID,
		AccountType: acc.AccountType,
		Balance:     acc.Balance.Round(domain.MoneyScale),
		OpenedAt:    acc.OpenedAt,
	}
}

// ToListAccountsResponse converts a slice of domain.Account to ListAccountsResponse DTO
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	resp := ListAccountsResponse{Accounts: make([]AccountResponse, len(accounts))}
	for i := range accounts {
		resp.Accounts[i] = ToAccountResponse(&accounts[i])
	}
	return resp
}
