package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
)

// CustomerReader defines read operations for customers and their credentials.
type CustomerReader interface {
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	FindCredentialByUsername(ctx context.Context, username string) (*domain.Credential, error)
}

// CustomerWriter defines write operations for customers.
type CustomerWriter interface {
	// CreateCustomer stores the customer, its credential and its opening accounts
	// atomically. Returns apperrors.ErrDuplicate when email, phone or username are taken.
	CreateCustomer(ctx context.Context, customer domain.Customer, credential domain.Credential, accounts []domain.Account) error

	// RecordLogin stamps the last successful login of a credential.
	RecordLogin(ctx context.Context, username string, at time.Time) error
}

// CustomerRepositoryFacade combines all customer-related repository interfaces.
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
