package suggest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbook-dev/finbook/internal/domain"
)

// Service computes the inputs a Strategy needs (period income, category
// history) from the stores and delegates the actual suggestion to it.
type Service struct {
	CategoryRepo    domain.CategoryRepository
	TransactionRepo domain.TransactionRepository
	Strategy        Strategy
}

// NewService creates a suggestion Service using the given strategy.
func NewService(categoryRepo domain.CategoryRepository, transactionRepo domain.TransactionRepository, strategy Strategy) *Service {
	return &Service{
		CategoryRepo:    categoryRepo,
		TransactionRepo: transactionRepo,
		Strategy:        strategy,
	}
}

// SuggestedBudget produces a budget suggestion for the category in the given
// period. The suggested budget is returned, not persisted; recording it goes
// through the ledger service like any other budget.
func (s *Service) SuggestedBudget(ctx context.Context, categoryID uuid.UUID, period domain.Period, currency string) (*domain.Budget, error) {
	if s.Strategy == nil {
		return nil, fmt.Errorf("%w: no budgeting strategy configured", domain.ErrValidation)
	}

	category, err := s.CategoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	income, err := s.totalIncomeForPeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	history, err := s.historyForCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	return s.Strategy.SuggestBudget(category, income, history, period, currency)
}

func (s *Service) totalIncomeForPeriod(ctx context.Context, period domain.Period) (decimal.Decimal, error) {
	incomes, err := s.TransactionRepo.GetByType(ctx, domain.TransactionTypeIncome)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list income transactions: %w", err)
	}
	total := decimal.Zero
	for _, tx := range incomes {
		if tx.Period() == period {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

// historyForCategory collects every transaction recorded against the category
// or any of its descendants.
func (s *Service) historyForCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Transaction, error) {
	categories, err := s.CategoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	tree, err := domain.BuildTree(categories)
	if err != nil {
		return nil, err
	}
	all, err := s.TransactionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var history []*domain.Transaction
	for _, tx := range all {
		if tx.CategoryID == categoryID || tree.IsDescendantOf(tx.CategoryID, categoryID) {
			history = append(history, tx)
		}
	}
	return history, nil
}
