package seed

import (
	"context"
	"testing"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/platform/config"
	"github.com/SscSPs/rivanna_bank_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
customers:
  - fullName: Alice Example
    email: alice@example.com
    phone: "555-0100"
    username: alice
    password: alice-password
    deposits:
      SAVINGS: "100.00"
      CHEQUING: "25.50"
  - fullName: Bob Example
    email: bob@example.com
    phone: "555-0200"
    username: bob
    password: bob-password
`

func TestParseFixtures(t *testing.T) {
	f, err := ParseFixtures([]byte(fixtureYAML))
	require.NoError(t, err)
	require.Len(t, f.Customers, 2)
	assert.Equal(t, "25.50", f.Customers[0].Deposits["CHEQUING"])
	assert.Empty(t, f.Customers[1].Deposits)
}

func TestParseFixtures_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing username", "customers:\n  - email: a@example.com\n    password: x\n"},
		{"unknown account type", "customers:\n  - email: a@example.com\n    username: a\n    password: x\n    deposits:\n      BROKERAGE: \"1.00\"\n"},
		{"bad amount", "customers:\n  - email: a@example.com\n    username: a\n    password: x\n    deposits:\n      SAVINGS: \"1.001\"\n"},
		{"unknown field", "customers:\n  - email: a@example.com\n    username: a\n    password: x\n    nickname: al\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixtures([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider()
	cfg := &config.Config{LockTimeout: services.DefaultLockTimeout, JWTSecret: "test"}
	svc := services.NewServiceContainer(cfg, repos, nil)

	f, err := ParseFixtures([]byte(fixtureYAML))
	require.NoError(t, err)

	sum, err := Apply(ctx, f, svc)
	require.NoError(t, err)
	assert.Equal(t, Summary{Registered: 2, Deposits: 2}, sum)

	alice, err := repos.CustomerRepo.FindCustomerByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	accounts, err := svc.Provisioning.ListCustomerAccounts(ctx, alice.CustomerID, nil)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	for _, acc := range accounts {
		want := decimal.RequireFromString("100.00")
		if acc.AccountType == domain.Chequing {
			want = decimal.RequireFromString("25.50")
		}
		assert.True(t, acc.Balance.Equal(want), "%s balance %s", acc.AccountType, acc.Balance)
	}

	// Re-running skips everyone.
	sum, err = Apply(ctx, f, svc)
	require.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 2}, sum)
}
