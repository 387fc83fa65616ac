package services

import (
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.EventPublisher) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Ledger: NewLedgerService(
			repos.JournalRepo,
			WithLockTimeout(cfg.LockTimeout),
			WithEventPublisher(publisher),
		),
		Query:        NewQueryService(repos.AccountRepo, repos.JournalRepo),
		Provisioning: NewProvisioningService(repos.CustomerRepo, repos.AccountRepo),
		Auth: NewAuthService(repos.CustomerRepo, TokenConfig{
			Secret: cfg.JWTSecret,
			Expiry: cfg.JWTExpiryDuration,
			Issuer: cfg.JWTIssuer,
		}),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade        = (*ledgerService)(nil)
	_ portssvc.LedgerEngineSvc        = (*ledgerEngine)(nil)
	_ portssvc.TransferCoordinatorSvc = (*transferCoordinator)(nil)
)
