// Package ledger implements the finance ledger service: the only component
// that ties transactions, budgets and the notification subject together.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/finbook-dev/finbook/internal/domain"
	"github.com/finbook-dev/finbook/internal/notify"
)

// Service orchestrates transaction recording, budget matching and
// notifications. All collaborators are injected at construction; the service
// holds no global state.
type Service struct {
	CategoryRepo    domain.CategoryRepository
	TransactionRepo domain.TransactionRepository
	BudgetRepo      domain.BudgetRepository
	Notifier        *notify.Subject
}

// NewService creates a new ledger Service instance.
func NewService(
	categoryRepo domain.CategoryRepository,
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	notifier *notify.Subject,
) *Service {
	return &Service{
		CategoryRepo:    categoryRepo,
		TransactionRepo: transactionRepo,
		BudgetRepo:      budgetRepo,
		Notifier:        notifier,
	}
}

// ===== Transactions =====

// AddTransaction persists a transaction. For expenses it then locates every
// budget whose period matches the transaction's month and whose category
// matches exactly or by subtree, applies the expense through the notification
// subject, and persists each updated budget.
func (s *Service) AddTransaction(ctx context.Context, tx *domain.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: transaction cannot be nil", domain.ErrValidation)
	}
	if err := s.TransactionRepo.Save(ctx, tx); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	if tx.Type != domain.TransactionTypeExpense {
		return nil
	}

	budgets, err := s.matchingBudgets(ctx, tx.CategoryID, tx.Period())
	if err != nil {
		return err
	}

	for _, budget := range budgets {
		if err := s.Notifier.ProcessExpense(budget, tx.Amount); err != nil {
			return err
		}
		if err := s.BudgetRepo.Save(ctx, budget); err != nil {
			return fmt.Errorf("failed to save budget %s: %w", budget.ID, err)
		}
	}
	return nil
}

// RemoveTransaction deletes a transaction. If it was an expense, its effect is
// first reversed on every matching budget. The reversal never re-runs the
// notification subject: a crossing notification, once fired, is not retracted.
func (s *Service) RemoveTransaction(ctx context.Context, id uuid.UUID) error {
	tx, err := s.TransactionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if tx.Type == domain.TransactionTypeExpense {
		budgets, err := s.matchingBudgets(ctx, tx.CategoryID, tx.Period())
		if err != nil {
			return err
		}
		for _, budget := range budgets {
			if err := budget.RemoveExpense(tx.Amount); err != nil {
				return err
			}
			if err := s.BudgetRepo.Save(ctx, budget); err != nil {
				return fmt.Errorf("failed to save budget %s: %w", budget.ID, err)
			}
		}
	}

	return s.TransactionRepo.DeleteByID(ctx, id)
}

// Transactions returns every stored transaction.
func (s *Service) Transactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.TransactionRepo.GetAll(ctx)
}

// TransactionsByType returns every transaction of one variant.
func (s *Service) TransactionsByType(ctx context.Context, tt domain.TransactionType) ([]*domain.Transaction, error) {
	return s.TransactionRepo.GetByType(ctx, tt)
}

// TransactionsByCategory returns the transactions recorded against a category
// or any of its descendants.
func (s *Service) TransactionsByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Transaction, error) {
	tree, err := s.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.TransactionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Transaction
	for _, tx := range all {
		if tx.CategoryID == categoryID || tree.IsDescendantOf(tx.CategoryID, categoryID) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// TransactionsByPeriod returns the transactions of one calendar month.
func (s *Service) TransactionsByPeriod(ctx context.Context, period domain.Period) ([]*domain.Transaction, error) {
	all, err := s.TransactionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Transaction
	for _, tx := range all {
		if tx.Period() == period {
			out = append(out, tx)
		}
	}
	return out, nil
}

// SearchTransactions matches the term case-insensitively against transaction
// descriptions and category names.
func (s *Service) SearchTransactions(ctx context.Context, term string) ([]*domain.Transaction, error) {
	tree, err := s.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.TransactionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	var out []*domain.Transaction
	for _, tx := range all {
		if strings.Contains(strings.ToLower(tx.Description), needle) {
			out = append(out, tx)
			continue
		}
		if c, err := tree.Get(tx.CategoryID); err == nil &&
			strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// ===== Budgets =====

// AddBudget inserts a budget, enforcing at most one budget per
// (category, period) pair: any existing budget for the pair is removed first.
// The new budget's spent total is then backfilled by silently replaying every
// stored expense of the period that matches the category exactly or by
// subtree. The backfill never fires notifications.
func (s *Service) AddBudget(ctx context.Context, budget *domain.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget cannot be nil", domain.ErrValidation)
	}

	existing, err := s.BudgetRepo.GetByPeriod(ctx, budget.Period)
	if err != nil {
		return fmt.Errorf("failed to list budgets for period %s: %w", budget.Period, err)
	}
	for _, old := range existing {
		if old.CategoryID == budget.CategoryID && old.ID != budget.ID {
			if err := s.BudgetRepo.DeleteByID(ctx, old.ID); err != nil {
				return fmt.Errorf("failed to replace budget %s: %w", old.ID, err)
			}
		}
	}

	tree, err := s.CategoryTree(ctx)
	if err != nil {
		return err
	}
	expenses, err := s.TransactionRepo.GetByType(ctx, domain.TransactionTypeExpense)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	budget.ResetSpent()
	for _, tx := range expenses {
		if tx.Period() != budget.Period {
			continue
		}
		if tx.CategoryID != budget.CategoryID && !tree.IsDescendantOf(tx.CategoryID, budget.CategoryID) {
			continue
		}
		if err := budget.AddExpense(tx.Amount); err != nil {
			return err
		}
	}

	if err := s.BudgetRepo.Save(ctx, budget); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// RemoveBudget deletes a budget by ID.
func (s *Service) RemoveBudget(ctx context.Context, id uuid.UUID) error {
	return s.BudgetRepo.DeleteByID(ctx, id)
}

// Budgets returns every stored budget.
func (s *Service) Budgets(ctx context.Context) ([]*domain.Budget, error) {
	return s.BudgetRepo.GetAll(ctx)
}

// BudgetsByPeriod returns the budgets of one calendar month.
func (s *Service) BudgetsByPeriod(ctx context.Context, period domain.Period) ([]*domain.Budget, error) {
	return s.BudgetRepo.GetByPeriod(ctx, period)
}

// BudgetForCategory returns the budget for exactly the given (category,
// period) pair, or ErrNotFound.
func (s *Service) BudgetForCategory(ctx context.Context, categoryID uuid.UUID, period domain.Period) (*domain.Budget, error) {
	budgets, err := s.BudgetRepo.GetByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		if b.CategoryID == categoryID {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: budget for category %s in %s", domain.ErrNotFound, categoryID, period)
}

// ===== Categories =====

// AddCategory registers a standalone category.
func (s *Service) AddCategory(ctx context.Context, category *domain.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category cannot be nil", domain.ErrValidation)
	}
	if err := category.Validate(); err != nil {
		return err
	}
	return s.CategoryRepo.Save(ctx, category)
}

// AddSubcategory links child under parent, rejecting links that would create a
// cycle, and persists the changed child node.
func (s *Service) AddSubcategory(ctx context.Context, parentID, childID uuid.UUID) error {
	tree, err := s.CategoryTree(ctx)
	if err != nil {
		return err
	}
	if err := tree.AddSubcategory(parentID, childID); err != nil {
		return err
	}
	child, err := tree.Get(childID)
	if err != nil {
		return err
	}
	return s.CategoryRepo.Save(ctx, child)
}

// RemoveSubcategory unlinks child from parent, persisting the changed child.
// Unlinked children become roots; nothing is deleted.
func (s *Service) RemoveSubcategory(ctx context.Context, parentID, childID uuid.UUID) error {
	tree, err := s.CategoryTree(ctx)
	if err != nil {
		return err
	}
	child, err := tree.Get(childID)
	if err != nil {
		return err
	}
	if child.ParentID == nil || *child.ParentID != parentID {
		return nil
	}
	tree.RemoveSubcategory(parentID, childID)
	return s.CategoryRepo.Save(ctx, child)
}

// RemoveCategory deletes a category. It fails with ErrConflict while any
// transaction or budget still references the category directly. Direct
// subcategories are re-rooted, not deleted.
func (s *Service) RemoveCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.CategoryRepo.GetByID(ctx, id); err != nil {
		return err
	}

	txs, err := s.TransactionRepo.GetByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check transactions for category %s: %w", id, err)
	}
	if len(txs) > 0 {
		return fmt.Errorf("%w: category %s has %d transactions", domain.ErrConflict, id, len(txs))
	}

	budgets, err := s.BudgetRepo.GetByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check budgets for category %s: %w", id, err)
	}
	if len(budgets) > 0 {
		return fmt.Errorf("%w: category %s has %d budgets", domain.ErrConflict, id, len(budgets))
	}

	children, err := s.CategoryRepo.GetByParent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list subcategories of %s: %w", id, err)
	}
	for _, child := range children {
		child.ParentID = nil
		if err := s.CategoryRepo.Save(ctx, child); err != nil {
			return fmt.Errorf("failed to re-root subcategory %s: %w", child.ID, err)
		}
	}

	return s.CategoryRepo.DeleteByID(ctx, id)
}

// CategoryTree loads every stored category into a Tree for path and subtree
// queries. Transaction flow consults the tree read-only.
func (s *Service) CategoryTree(ctx context.Context) (*domain.Tree, error) {
	categories, err := s.CategoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return domain.BuildTree(categories)
}

// matchingBudgets returns the budgets of the given period whose category is
// the given category or an ancestor of it.
func (s *Service) matchingBudgets(ctx context.Context, categoryID uuid.UUID, period domain.Period) ([]*domain.Budget, error) {
	budgets, err := s.BudgetRepo.GetByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for period %s: %w", period, err)
	}
	tree, err := s.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}

	var matched []*domain.Budget
	for _, b := range budgets {
		if b.CategoryID == categoryID || tree.IsDescendantOf(categoryID, b.CategoryID) {
			matched = append(matched, b)
		}
	}
	return matched, nil
}
