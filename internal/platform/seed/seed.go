package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// Fixtures is the root of a seed file.
type Fixtures struct {
	Customers []CustomerFixture `yaml:"customers"`
}

// CustomerFixture registers one customer and funds its opening accounts.
type CustomerFixture struct {
	FullName string            `yaml:"fullName"`
	Email    string            `yaml:"email"`
	Phone    string            `yaml:"phone"`
	Address  string            `yaml:"address"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	Deposits map[string]string `yaml:"deposits"` // account type -> amount
}

// Summary counts what Apply did.
type Summary struct {
	Registered int
	Skipped    int
	Deposits   int
}

// LoadFixtures reads and validates a seed file. Relative paths resolve against the working directory.
func LoadFixtures(file string) (*Fixtures, error) {
	path := file
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, file)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", file, err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes seed YAML and checks every entry.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("unable to parse fixtures: %w", err)
	}

	for i, c := range f.Customers {
		if c.Username == "" || c.Email == "" || c.Password == "" {
			return nil, fmt.Errorf("customer at index %d missing username, email or password", i)
		}
		for accountType, amount := range c.Deposits {
			if !domain.AccountType(accountType).IsValid() {
				return nil, fmt.Errorf("customer %s: unknown account type %q", c.Username, accountType)
			}
			d, err := decimal.NewFromString(amount)
			if err != nil || !domain.IsValidAmount(d) {
				return nil, fmt.Errorf("customer %s: invalid %s deposit %q", c.Username, accountType, amount)
			}
		}
	}
	return &f, nil
}

// Apply registers every customer and makes its opening deposits. Customers
// that already exist are skipped so a seed can be re-run.
func Apply(ctx context.Context, f *Fixtures, svc *portssvc.ServiceContainer) (Summary, error) {
	var sum Summary
	for _, c := range f.Customers {
		customer, accounts, err := svc.Provisioning.RegisterCustomer(ctx, dto.RegisterCustomerRequest{
			FullName:        c.FullName,
			Email:           c.Email,
			Phone:           c.Phone,
			Address:         c.Address,
			Username:        c.Username,
			Password:        c.Password,
			ConfirmPassword: c.Password,
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				slog.WarnContext(ctx, "Customer already present, skipping", slog.String("username", c.Username))
				sum.Skipped++
				continue
			}
			return sum, fmt.Errorf("failed to register %s: %w", c.Username, err)
		}
		sum.Registered++

		for _, acc := range accounts {
			amount, ok := c.Deposits[string(acc.AccountType)]
			if !ok {
				continue
			}
			if _, err := svc.Ledger.ApplyDeposit(ctx, customer.CustomerID, acc.AccountID, decimal.RequireFromString(amount)); err != nil {
				return sum, fmt.Errorf("failed to fund %s %s: %w", c.Username, acc.AccountType, err)
			}
			sum.Deposits++
		}
		slog.InfoContext(ctx, "Seeded customer", slog.String("username", c.Username), slog.String("customer_id", customer.CustomerID))
	}
	return sum, nil
}
