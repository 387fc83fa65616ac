package mapping

import (
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/SscSPs/rivanna_bank_ledger/internal/models"
)

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	m := models.Customer{
		CustomerID: d.CustomerID,
		FullName:   d.FullName,
		Email:      d.Email,
		Phone:      d.Phone,
		CreatedAt:  d.CreatedAt,
	}
	if d.Address != "" {
		addr := d.Address
		m.Address = &addr
	}
	return m
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	d := domain.Customer{
		CustomerID: m.CustomerID,
		FullName:   m.FullName,
		Email:      m.Email,
		Phone:      m.Phone,
		CreatedAt:  m.CreatedAt,
	}
	if m.Address != nil {
		d.Address = *m.Address
	}
	return d
}

// ToDomainCredential converts a model Login to a domain Credential
func ToDomainCredential(m models.Login) domain.Credential {
	return domain.Credential{
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		CustomerID:   m.CustomerID,
		LastLoginAt:  m.LastLoginAt,
	}
}
