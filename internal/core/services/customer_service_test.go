package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/repositories/memory"
	"github.com/SscSPs/rivanna_bank_ledger/internal/utils"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret"

type CustomerServicesTestSuite struct {
	suite.Suite
	ctx          context.Context
	store        *memory.Store
	provisioning portssvc.ProvisioningSvc
	auth         portssvc.AuthSvc
}

func (suite *CustomerServicesTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.provisioning = services.NewProvisioningService(suite.store, suite.store)
	suite.auth = services.NewAuthService(suite.store, services.TokenConfig{
		Secret: testJWTSecret,
		Expiry: time.Hour,
		Issuer: "ledger-test",
	})
}

func registration(username, email, phone string) dto.RegisterCustomerRequest {
	return dto.RegisterCustomerRequest{
		FullName:        "Test " + username,
		Email:           email,
		Phone:           phone,
		Address:         "1 Main St",
		Username:        username,
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	}
}

func (suite *CustomerServicesTestSuite) TestRegisterCustomer_OpensSavingsAndChequing() {
	customer, accounts, err := suite.provisioning.RegisterCustomer(suite.ctx, registration("alice", " Alice@Example.com ", "555-0100"))
	suite.Require().NoError(err)
	suite.Equal("alice@example.com", customer.Email)
	suite.Require().Len(accounts, 2)
	suite.Equal(domain.Savings, accounts[0].AccountType)
	suite.Equal(domain.Chequing, accounts[1].AccountType)
	for _, a := range accounts {
		suite.Equal(customer.CustomerID, a.OwnerID)
		suite.True(a.Balance.IsZero())
	}

	listed, err := suite.provisioning.ListCustomerAccounts(suite.ctx, customer.CustomerID, nil)
	suite.Require().NoError(err)
	suite.Len(listed, 2)

	chequing := domain.Chequing
	listed, err = suite.provisioning.ListCustomerAccounts(suite.ctx, customer.CustomerID, &chequing)
	suite.Require().NoError(err)
	suite.Require().Len(listed, 1)
	suite.Equal(accounts[1].AccountID, listed[0].AccountID)
}

func (suite *CustomerServicesTestSuite) TestRegisterCustomer_Rejections() {
	_, _, err := suite.provisioning.RegisterCustomer(suite.ctx, registration("alice", "alice@example.com", "555-0100"))
	suite.Require().NoError(err)

	tests := []struct {
		name    string
		req     dto.RegisterCustomerRequest
		wantErr error
	}{
		{"duplicate username", registration("alice", "other@example.com", "555-0101"), apperrors.ErrDuplicate},
		{"duplicate email", registration("alice2", "ALICE@example.com", "555-0102"), apperrors.ErrDuplicate},
		{"duplicate phone", registration("alice3", "third@example.com", "555-0100"), apperrors.ErrDuplicate},
		{"password mismatch", func() dto.RegisterCustomerRequest {
			r := registration("bob", "bob@example.com", "555-0200")
			r.ConfirmPassword = "different"
			return r
		}(), apperrors.ErrValidation},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			customer, accounts, err := suite.provisioning.RegisterCustomer(suite.ctx, tt.req)
			suite.ErrorIs(err, tt.wantErr)
			suite.Nil(customer)
			suite.Nil(accounts)
		})
	}
}

func (suite *CustomerServicesTestSuite) TestResolveRecipientAccount() {
	customer, accounts, err := suite.provisioning.RegisterCustomer(suite.ctx, registration("bob", "bob@example.com", "555-0200"))
	suite.Require().NoError(err)

	account, err := suite.provisioning.ResolveRecipientAccount(suite.ctx, "BOB@example.com")
	suite.Require().NoError(err)
	suite.Equal(customer.CustomerID, account.OwnerID)
	suite.Equal(accounts[1].AccountID, account.AccountID)
	suite.Equal(domain.Chequing, account.AccountType)

	_, err = suite.provisioning.ResolveRecipientAccount(suite.ctx, "nobody@example.com")
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (suite *CustomerServicesTestSuite) TestLogin() {
	customer, _, err := suite.provisioning.RegisterCustomer(suite.ctx, registration("alice", "alice@example.com", "555-0100"))
	suite.Require().NoError(err)

	resp, err := suite.auth.Login(suite.ctx, dto.LoginRequest{Username: "alice", Password: "s3cret-pass"})
	suite.Require().NoError(err)
	suite.NotEmpty(resp.Token)
	suite.Greater(resp.ExpiresAt, time.Now().Unix())

	claims, err := utils.ParseAndValidateJWT(resp.Token, testJWTSecret)
	suite.Require().NoError(err)
	suite.Equal(customer.CustomerID, claims.Subject)

	credential, err := suite.store.FindCredentialByUsername(suite.ctx, "alice")
	suite.Require().NoError(err)
	suite.NotNil(credential.LastLoginAt)
}

func (suite *CustomerServicesTestSuite) TestLogin_Rejections() {
	_, _, err := suite.provisioning.RegisterCustomer(suite.ctx, registration("alice", "alice@example.com", "555-0100"))
	suite.Require().NoError(err)

	_, err = suite.auth.Login(suite.ctx, dto.LoginRequest{Username: "alice", Password: "wrong-pass"})
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.auth.Login(suite.ctx, dto.LoginRequest{Username: "ghost", Password: "s3cret-pass"})
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestCustomerServices(t *testing.T) {
	suite.Run(t, new(CustomerServicesTestSuite))
}
