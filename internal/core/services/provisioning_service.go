package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// openingAccountTypes are opened for every new customer.
var openingAccountTypes = []domain.AccountType{domain.Savings, domain.Chequing}

type provisioningService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
	accountRepo  portsrepo.AccountReader
}

// NewProvisioningService creates the customer and account provisioning service.
func NewProvisioningService(customerRepo portsrepo.CustomerRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.ProvisioningSvc {
	return &provisioningService{
		customerRepo: customerRepo,
		accountRepo:  accountRepo,
	}
}

var _ portssvc.ProvisioningSvc = (*provisioningService)(nil)

// RegisterCustomer creates the customer, its login and a zero-balance savings and chequing account.
func (s *provisioningService) RegisterCustomer(ctx context.Context, req dto.RegisterCustomerRequest) (*domain.Customer, []domain.Account, error) {
	if req.Password != req.ConfirmPassword {
		return nil, nil, fmt.Errorf("%w: passwords do not match", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Username) == "" {
		return nil, nil, fmt.Errorf("%w: name and username are required", apperrors.ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	customer := domain.Customer{
		CustomerID: uuid.NewString(),
		FullName:   strings.TrimSpace(req.FullName),
		Email:      normalizeEmail(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
		CreatedAt:  now,
	}
	credential := domain.Credential{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		CustomerID:   customer.CustomerID,
	}
	accounts := make([]domain.Account, 0, len(openingAccountTypes))
	for _, t := range openingAccountTypes {
		accounts = append(accounts, domain.Account{
			AccountID:      uuid.NewString(),
			OwnerID:        customer.CustomerID,
			AccountType:    t,
			Balance:        decimal.Zero,
			OpenedAt:       now,
			LastActivityAt: now,
		})
	}

	if err := s.customerRepo.CreateCustomer(ctx, customer, credential, accounts); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, err, "Customer registration rejected", slog.String("username", credential.Username))
			return nil, nil, err
		}
		s.LogError(ctx, err, "Failed to create customer", slog.String("username", credential.Username))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Customer registered",
		slog.String("customer_id", customer.CustomerID),
		slog.Int("accounts", len(accounts)))
	return &customer, accounts, nil
}

func (s *provisioningService) ListCustomerAccounts(ctx context.Context, customerID string, accountType *domain.AccountType) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByOwner(ctx, customerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("customer_id", customerID))
		return nil, err
	}
	if accountType == nil {
		return accounts, nil
	}

	filtered := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.AccountType == *accountType {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (s *provisioningService) ResolveRecipientAccount(ctx context.Context, email string) (*domain.Account, error) {
	customer, err := s.customerRepo.FindCustomerByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no customer registered with that email", apperrors.ErrAccountNotFound)
		}
		return nil, err
	}

	chequing := domain.Chequing
	accounts, err := s.ListCustomerAccounts(ctx, customer.CustomerID, &chequing)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: recipient has no chequing account", apperrors.ErrAccountNotFound)
	}
	return &accounts[0], nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
