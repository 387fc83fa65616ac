package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/utils"
)

// TokenConfig holds what the auth service needs to sign access tokens.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type authService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
	tokens       TokenConfig
}

// NewAuthService creates the login service.
func NewAuthService(customerRepo portsrepo.CustomerRepositoryFacade, tokens TokenConfig) portssvc.AuthSvc {
	return &authService{
		customerRepo: customerRepo,
		tokens:       tokens,
	}
}

var _ portssvc.AuthSvc = (*authService)(nil)

// Login checks the username and password and issues an access token whose subject is the customer id.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	credential, err := s.customerRepo.FindCredentialByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, err, "Login for unknown username")
			return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
		}
		s.LogError(ctx, err, "Failed to load credential")
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, credential.PasswordHash) {
		s.LogWarn(ctx, apperrors.ErrUnauthorized, "Incorrect password", slog.String("customer_id", credential.CustomerID))
		return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	}

	token, expiresAt, err := utils.GenerateJWT(credential.CustomerID, s.tokens.Secret, s.tokens.Expiry, s.tokens.Issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("customer_id", credential.CustomerID))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	if err := s.customerRepo.RecordLogin(ctx, credential.Username, s.Now()); err != nil {
		// Login still succeeds without the stamp.
		s.LogError(ctx, err, "Failed to record login", slog.String("customer_id", credential.CustomerID))
	}

	s.LogInfo(ctx, "Customer logged in", slog.String("customer_id", credential.CustomerID))
	return &dto.LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}
