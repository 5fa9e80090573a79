//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook-dev/finbook/internal/adapter/repository/postgres"
	"github.com/finbook-dev/finbook/internal/domain"
	"github.com/finbook-dev/finbook/internal/notify"
	"github.com/finbook-dev/finbook/internal/usecase/ledger"
	"github.com/finbook-dev/finbook/internal/usecase/report"
)

var db *postgres.DB

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	db, err = postgres.NewDB(getDBConnectionString())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		panic(fmt.Sprintf("Failed to ensure schema: %v", err))
	}

	code := m.Run()

	os.Exit(code)
}

func getDBConnectionString() string {
	if connStr := os.Getenv("FINBOOK_TEST_DB"); connStr != "" {
		return connStr
	}
	return "host=localhost port=5432 user=postgres password=postgres dbname=finbook_test sslmode=disable"
}

func newLedgerService() *ledger.Service {
	return ledger.NewService(
		postgres.NewCategoryRepository(db),
		postgres.NewTransactionRepository(db),
		postgres.NewBudgetRepository(db),
		notify.NewSubject(),
	)
}

// TestExpenseAgainstBudget runs the full flow against a real database:
// category, budget, expense, reversal.
func TestExpenseAgainstBudget(t *testing.T) {
	ctx := context.Background()
	svc := newLedgerService()

	category, err := domain.NewCategory(fmt.Sprintf("E2E Groceries %d", os.Getpid()), "integration test")
	require.NoError(t, err)
	require.NoError(t, svc.AddCategory(ctx, category))

	period := domain.CurrentPeriod()
	budget, err := domain.NewBudget(category.ID, decimal.NewFromInt(100), period, "EUR")
	require.NoError(t, err)
	require.NoError(t, svc.AddBudget(ctx, budget))

	tx, err := domain.NewExpense(decimal.NewFromInt(60), "e2e shop", category.ID, "EUR")
	require.NoError(t, err)
	require.NoError(t, svc.AddTransaction(ctx, tx))

	stored, err := svc.BudgetForCategory(ctx, category.ID, period)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(stored.Spent), "got spent %s", stored.Spent)

	// Removing the expense reverses the spent total.
	require.NoError(t, svc.RemoveTransaction(ctx, tx.ID))
	stored, err = svc.BudgetForCategory(ctx, category.ID, period)
	require.NoError(t, err)
	assert.True(t, stored.Spent.IsZero(), "got spent %s", stored.Spent)

	// Cleanup in dependency order.
	require.NoError(t, svc.RemoveBudget(ctx, stored.ID))
	require.NoError(t, svc.RemoveCategory(ctx, category.ID))
}

// TestBudgetReplacementBackfill verifies that re-setting a budget for the same
// category and month replaces it and replays existing expenses.
func TestBudgetReplacementBackfill(t *testing.T) {
	ctx := context.Background()
	svc := newLedgerService()
	reports := report.NewService(
		postgres.NewTransactionRepository(db),
		postgres.NewBudgetRepository(db),
		postgres.NewCategoryRepository(db),
	)

	category, err := domain.NewCategory(fmt.Sprintf("E2E Transport %d", os.Getpid()), "integration test")
	require.NoError(t, err)
	require.NoError(t, svc.AddCategory(ctx, category))

	tx, err := domain.NewExpense(decimal.NewFromInt(95), "e2e fuel", category.ID, "EUR")
	require.NoError(t, err)
	require.NoError(t, svc.AddTransaction(ctx, tx))

	period := domain.CurrentPeriod()
	budget, err := domain.NewBudget(category.ID, decimal.NewFromInt(100), period, "EUR")
	require.NoError(t, err)
	require.NoError(t, svc.AddBudget(ctx, budget))

	stored, err := svc.BudgetForCategory(ctx, category.ID, period)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(95).Equal(stored.Spent), "got spent %s", stored.Spent)
	assert.True(t, stored.IsNearLimit())

	nearLimit, err := reports.GetBudgetsNearLimit(ctx)
	require.NoError(t, err)
	found := false
	for _, b := range nearLimit {
		if b.ID == stored.ID {
			found = true
		}
	}
	assert.True(t, found, "budget should be reported near its limit")

	require.NoError(t, svc.RemoveTransaction(ctx, tx.ID))
	require.NoError(t, svc.RemoveBudget(ctx, stored.ID))
	require.NoError(t, svc.RemoveCategory(ctx, category.ID))
}
