package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/finbook-dev/finbook/internal/adapter/repository/memory"
	"github.com/finbook-dev/finbook/internal/adapter/repository/postgres"
	"github.com/finbook-dev/finbook/internal/domain"
	"github.com/finbook-dev/finbook/internal/notify"
	"github.com/finbook-dev/finbook/internal/usecase/ledger"
	"github.com/finbook-dev/finbook/internal/usecase/report"
	"github.com/finbook-dev/finbook/internal/usecase/seeder"
	"github.com/finbook-dev/finbook/internal/usecase/suggest"
)

// app bundles the fully wired services for one command invocation.
type app struct {
	Ledger   *ledger.Service
	Reports  *report.Service
	Notifier *notify.Subject

	CategoryRepo    domain.CategoryRepository
	TransactionRepo domain.TransactionRepository
	BudgetRepo      domain.BudgetRepository

	db *postgres.DB
}

// newApp builds repositories for the configured store, seeds the default
// category tree on first run and attaches the console budget observer.
func newApp(ctx context.Context) (*app, error) {
	a := &app{}

	switch kind := viper.GetString("store.kind"); kind {
	case "memory":
		a.CategoryRepo = memory.NewCategoryRepository()
		a.TransactionRepo = memory.NewTransactionRepository()
		a.BudgetRepo = memory.NewBudgetRepository()
	case "postgres":
		connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			viper.GetString("db.host"),
			viper.GetString("db.port"),
			viper.GetString("db.user"),
			viper.GetString("db.password"),
			viper.GetString("db.name"),
		)
		db, err := postgres.NewDB(connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		a.CategoryRepo = postgres.NewCategoryRepository(db)
		a.TransactionRepo = postgres.NewTransactionRepository(db)
		a.BudgetRepo = postgres.NewBudgetRepository(db)
	default:
		return nil, fmt.Errorf("%w: unknown store kind %q", domain.ErrValidation, kind)
	}

	if err := seeder.NewDefaultSeeder(a.CategoryRepo).Seed(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Notifier = notify.NewSubject()
	a.Ledger = ledger.NewService(a.CategoryRepo, a.TransactionRepo, a.BudgetRepo, a.Notifier)
	a.Reports = report.NewService(a.TransactionRepo, a.BudgetRepo, a.CategoryRepo)

	a.Notifier.AddObserver(notify.NewConsoleObserver(os.Stdout, a.categoryPath(ctx)))

	return a, nil
}

// Close releases the backing store, if any.
func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Warn("failed to close database", "error", err)
		}
	}
}

// Suggest builds a suggestion service for the named strategy.
func (a *app) Suggest(name string) (*suggest.Service, error) {
	strategy, err := strategyByName(name)
	if err != nil {
		return nil, err
	}
	return suggest.NewService(a.CategoryRepo, a.TransactionRepo, strategy), nil
}

func strategyByName(name string) (suggest.Strategy, error) {
	switch name {
	case "conservative":
		return suggest.Conservative{}, nil
	case "aggressive":
		return suggest.Aggressive{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q (conservative, aggressive)", domain.ErrValidation, name)
	}
}

// categoryPath resolves a category ID to its full path for observer output,
// falling back to the raw ID when the lookup fails.
func (a *app) categoryPath(ctx context.Context) notify.PathResolver {
	return func(id uuid.UUID) string {
		tree, err := a.Ledger.CategoryTree(ctx)
		if err != nil {
			return id.String()
		}
		path, err := tree.FullPath(id)
		if err != nil {
			return id.String()
		}
		return path
	}
}
