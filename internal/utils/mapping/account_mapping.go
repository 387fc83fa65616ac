package mapping

import (
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/SscSPs/rivanna_bank_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		OwnerID:        d.OwnerID,
		AccountType:    string(d.AccountType),
		Balance:        d.Balance,
		OpenedAt:       d.OpenedAt,
		LastActivityAt: d.LastActivityAt,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		OwnerID:        m.OwnerID,
		AccountType:    domain.AccountType(m.AccountType),
		Balance:        m.Balance,
		OpenedAt:       m.OpenedAt,
		LastActivityAt: m.LastActivityAt,
	}
}
