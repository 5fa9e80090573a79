package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence operations.
// GetByID returns ErrNotFound when no category matches; list queries return
// empty slices instead of erroring.
type CategoryRepository interface {
	// Save inserts or updates a category.
	Save(ctx context.Context, category *Category) error

	// GetByID retrieves a category by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// GetAll retrieves every stored category.
	GetAll(ctx context.Context) ([]*Category, error)

	// GetByParent retrieves the direct subcategories of a category.
	GetByParent(ctx context.Context, parentID uuid.UUID) ([]*Category, error)

	// GetRoots retrieves every category without a parent.
	GetRoots(ctx context.Context) ([]*Category, error)

	// Count returns the number of stored categories.
	Count(ctx context.Context) (int, error)

	// DeleteByID removes a category. Returns ErrNotFound when absent.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines the interface for transaction persistence
// operations.
type TransactionRepository interface {
	// Save inserts or updates a transaction.
	Save(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// GetAll retrieves every stored transaction.
	GetAll(ctx context.Context) ([]*Transaction, error)

	// GetByCategory retrieves transactions recorded against exactly the given
	// category. Subtree expansion is the caller's concern.
	GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*Transaction, error)

	// GetByType retrieves transactions of one variant.
	GetByType(ctx context.Context, tt TransactionType) ([]*Transaction, error)

	// GetByDateRange retrieves transactions with start <= timestamp < end.
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*Transaction, error)

	// DeleteByID removes a transaction. Returns ErrNotFound when absent.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// BudgetRepository defines the interface for budget persistence operations.
type BudgetRepository interface {
	// Save inserts or updates a budget.
	Save(ctx context.Context, budget *Budget) error

	// GetByID retrieves a budget by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// GetAll retrieves every stored budget.
	GetAll(ctx context.Context) ([]*Budget, error)

	// GetByCategory retrieves budgets for exactly the given category.
	GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*Budget, error)

	// GetByPeriod retrieves budgets scoped to the given calendar month.
	GetByPeriod(ctx context.Context, period Period) ([]*Budget, error)

	// DeleteByID removes a budget. Returns ErrNotFound when absent.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
