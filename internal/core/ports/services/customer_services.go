package services

import (
	"context"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
)

// ProvisioningSvc creates customers with their accounts and resolves account ownership.
type ProvisioningSvc interface {
	RegisterCustomer(ctx context.Context, req dto.RegisterCustomerRequest) (*domain.Customer, []domain.Account, error)
	ListCustomerAccounts(ctx context.Context, customerID string, accountType *domain.AccountType) ([]domain.Account, error)
	// ResolveRecipientAccount finds the chequing account of the customer registered with email.
	ResolveRecipientAccount(ctx context.Context, email string) (*domain.Account, error)
}

// AuthSvc authenticates customers and issues access tokens.
type AuthSvc interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
