// Package report provides read-only aggregate queries over stored
// transactions and budgets. Every query is a pure fold; nothing here mutates
// state.
package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finbook-dev/finbook/internal/domain"
)

// MonthlyBalance aggregates one calendar month of transactions.
type MonthlyBalance struct {
	Period      domain.Period
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	Investments decimal.Decimal
	Balance     decimal.Decimal
}

// TrendPoint is one month of an N-month balance trend.
type TrendPoint struct {
	Period  domain.Period
	Balance decimal.Decimal
}

// Service handles reporting operations.
type Service struct {
	TransactionRepo domain.TransactionRepository
	BudgetRepo      domain.BudgetRepository
	CategoryRepo    domain.CategoryRepository
}

// NewService creates a new report Service instance.
func NewService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	categoryRepo domain.CategoryRepository,
) *Service {
	return &Service{
		TransactionRepo: transactionRepo,
		BudgetRepo:      budgetRepo,
		CategoryRepo:    categoryRepo,
	}
}

// GetMonthlyBalance sums income, expenses and investments for one month.
// Balance = income - expenses - investments.
func (s *Service) GetMonthlyBalance(ctx context.Context, period domain.Period) (*MonthlyBalance, error) {
	all, err := s.TransactionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	result := &MonthlyBalance{
		Period:      period,
		Income:      decimal.Zero,
		Expenses:    decimal.Zero,
		Investments: decimal.Zero,
	}
	for _, tx := range all {
		if tx.Period() != period {
			continue
		}
		switch tx.Type {
		case domain.TransactionTypeIncome:
			result.Income = result.Income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			result.Expenses = result.Expenses.Add(tx.Amount)
		case domain.TransactionTypeInvestment:
			result.Investments = result.Investments.Add(tx.Amount)
		}
	}
	result.Balance = result.Income.Sub(result.Expenses).Sub(result.Investments)
	return result, nil
}

// GetExpensesByCategory totals all expenses keyed by category name.
func (s *Service) GetExpensesByCategory(ctx context.Context) (map[string]decimal.Decimal, error) {
	expenses, err := s.TransactionRepo.GetByType(ctx, domain.TransactionTypeExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	categories, err := s.CategoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	tree, err := domain.BuildTree(categories)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, tx := range expenses {
		name := tx.CategoryID.String()
		if c, err := tree.Get(tx.CategoryID); err == nil {
			name = c.Name
		}
		current, ok := totals[name]
		if !ok {
			current = decimal.Zero
		}
		totals[name] = current.Add(tx.Amount)
	}
	return totals, nil
}

// GetMonthlyTrend returns the balances of the `months` calendar months ending
// at `end`, oldest first.
func (s *Service) GetMonthlyTrend(ctx context.Context, end domain.Period, months int) ([]TrendPoint, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: trend length must be positive", domain.ErrValidation)
	}

	trend := make([]TrendPoint, 0, months)
	start := end.AddMonths(-(months - 1))
	for i := 0; i < months; i++ {
		period := start.AddMonths(i)
		balance, err := s.GetMonthlyBalance(ctx, period)
		if err != nil {
			return nil, err
		}
		trend = append(trend, TrendPoint{Period: period, Balance: balance.Balance})
	}
	return trend, nil
}

// GetTotalBalance folds the balance impact of every stored transaction.
func (s *Service) GetTotalBalance(ctx context.Context) (decimal.Decimal, error) {
	all, err := s.TransactionRepo.GetAll(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list transactions: %w", err)
	}
	total := decimal.Zero
	for _, tx := range all {
		total = total.Add(tx.BalanceImpact())
	}
	return total, nil
}

// GetExceededBudgets returns every budget whose spent total passed its limit.
func (s *Service) GetExceededBudgets(ctx context.Context) ([]*domain.Budget, error) {
	all, err := s.BudgetRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	var out []*domain.Budget
	for _, b := range all {
		if b.IsExceeded() {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetBudgetsNearLimit returns budgets at or past 90% usage that are not yet
// exceeded.
func (s *Service) GetBudgetsNearLimit(ctx context.Context) ([]*domain.Budget, error) {
	all, err := s.BudgetRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	var out []*domain.Budget
	for _, b := range all {
		if b.IsNearLimit() && !b.IsExceeded() {
			out = append(out, b)
		}
	}
	return out, nil
}
