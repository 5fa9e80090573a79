package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finbook-dev/finbook/internal/adapter/repository/memory"
	"github.com/finbook-dev/finbook/internal/domain"
	"github.com/finbook-dev/finbook/internal/notify"
	"github.com/finbook-dev/finbook/internal/usecase/ledger"
	"github.com/finbook-dev/finbook/internal/usecase/report"
	"github.com/finbook-dev/finbook/internal/usecase/seeder"
)

// newDemoCommand runs a scripted walkthrough against an in-memory store. It
// exists to show the budget notifications end to end without touching the
// configured database.
func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted in-memory walkthrough",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runDemo(ctx context.Context, out io.Writer) error {
	categoryRepo := memory.NewCategoryRepository()
	transactionRepo := memory.NewTransactionRepository()
	budgetRepo := memory.NewBudgetRepository()

	if err := seeder.NewDefaultSeeder(categoryRepo).Seed(ctx); err != nil {
		return err
	}

	svc := ledger.NewService(categoryRepo, transactionRepo, budgetRepo, notify.NewSubject())
	reports := report.NewService(transactionRepo, budgetRepo, categoryRepo)

	tree, err := svc.CategoryTree(ctx)
	if err != nil {
		return err
	}
	svc.Notifier.AddObserver(notify.NewConsoleObserver(out, func(id uuid.UUID) string {
		path, err := tree.FullPath(id)
		if err != nil {
			return id.String()
		}
		return path
	}))

	groceries := tree.FindByName("Groceries")
	work := tree.FindByName("Work")
	if groceries == nil || work == nil {
		return fmt.Errorf("%w: seeded categories missing", domain.ErrNotFound)
	}

	fmt.Fprintln(out, "== Setting a 100 EUR budget for Groceries ==")
	budget, err := domain.NewBudget(groceries.ID, decimal.NewFromInt(100), domain.CurrentPeriod(), "EUR")
	if err != nil {
		return err
	}
	if err := svc.AddBudget(ctx, budget); err != nil {
		return err
	}

	fmt.Fprintln(out, "== Recording a salary and three grocery runs ==")
	steps := []func() (*domain.Transaction, error){
		func() (*domain.Transaction, error) {
			return domain.NewIncome(decimal.NewFromInt(2500), "Monthly salary", work.ID, "EUR")
		},
		func() (*domain.Transaction, error) {
			return domain.NewExpense(decimal.NewFromInt(45), "Weekly shop", groceries.ID, "EUR")
		},
		func() (*domain.Transaction, error) {
			return domain.NewExpense(decimal.NewFromInt(48), "Weekly shop", groceries.ID, "EUR")
		},
		func() (*domain.Transaction, error) {
			return domain.NewExpense(decimal.NewFromInt(30), "Top-up shop", groceries.ID, "EUR")
		},
	}
	for _, build := range steps {
		tx, err := build()
		if err != nil {
			return err
		}
		if err := svc.AddTransaction(ctx, tx); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "== Monthly balance ==")
	monthly, err := reports.GetMonthlyBalance(ctx, domain.CurrentPeriod())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Income %s, expenses %s, net %s\n",
		monthly.Income.StringFixed(2), monthly.Expenses.StringFixed(2), monthly.Balance.StringFixed(2))

	return nil
}
