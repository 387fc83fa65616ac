package dto

import "github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"

// RegisterCustomerRequest carries everything needed to open a customer with its accounts.
type RegisterCustomerRequest struct {
	FullName        string `json:"fullName" binding:"required,max=45"`
	Email           string `json:"email" binding:"required,email,max=45"`
	Phone           string `json:"phone" binding:"required,max=45"`
	Address         string `json:"address"`
	Username        string `json:"username" binding:"required,alphanum,min=3,max=45"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// CustomerResponse is returned after registration.
type CustomerResponse struct {
	CustomerID string            `json:"customerID"`
	FullName   string            `json:"fullName"`
	Email      string            `json:"email"`
	Accounts   []AccountResponse `json:"accounts"`
}

// ToCustomerResponse converts a customer and its accounts to CustomerResponse DTO
func ToCustomerResponse(c *domain.Customer, accounts []domain.Account) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		FullName:   c.FullName,
		Email:      c.Email,
		Accounts:   ToListAccountsResponse(accounts).Accounts,
	}
}
