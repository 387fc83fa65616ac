package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/rivanna_bank_ledger/internal/core/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/platform/config"
	"github.com/SscSPs/rivanna_bank_ledger/internal/platform/seed"
	"github.com/SscSPs/rivanna_bank_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/rivanna_bank_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/rivanna_bank_ledger/pkg/database"
)

// ledger_seed registers the customers in a YAML fixture file and makes their opening deposits.
func main() {
	file := flag.String("file", "fixtures/customers.yaml", "fixture file to load")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fixtures, err := seed.LoadFixtures(*file)
	if err != nil {
		logger.Error("Failed to load fixtures", slog.String("file", *file), slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	var repos portsrepo.RepositoryProvider
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
		if err != nil {
			logger.Error("Failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(pool, cfg.LockTimeout)
	case config.DriverSQLite:
		var db *sql.DB
		db, err = database.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err == nil {
			repos, err = sqlite.NewRepositoryProvider(ctx, db)
		}
		if err != nil {
			logger.Error("Failed to open SQLite store", slog.String("error", err.Error()))
			os.Exit(1)
		}
	default:
		logger.Error("Seeding needs a persistent store", slog.String("driver", cfg.StoreDriver))
		os.Exit(1)
	}
	defer repos.Close()

	svc := services.NewServiceContainer(cfg, repos, events.NoopPublisher{})
	summary, err := seed.Apply(ctx, fixtures, svc)
	if err != nil {
		logger.Error("Seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Seeding finished",
		slog.Int("registered", summary.Registered),
		slog.Int("skipped", summary.Skipped),
		slog.Int("deposits", summary.Deposits))
}
