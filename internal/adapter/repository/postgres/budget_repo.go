package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbook-dev/finbook/internal/domain"
)

// budgetRepository implements domain.BudgetRepository
type budgetRepository struct {
	db *DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *DB) domain.BudgetRepository {
	return &budgetRepository{db: db}
}

// Save inserts or updates a budget. The spent total is the only field the
// ledger mutates after insert.
func (r *budgetRepository) Save(ctx context.Context, budget *domain.Budget) error {
	query := `
		INSERT INTO budgets (id, category_id, limit_amount, period, currency, spent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET limit_amount = EXCLUDED.limit_amount,
		    currency = EXCLUDED.currency,
		    spent = EXCLUDED.spent
	`

	_, err := r.db.ExecContext(ctx, query,
		budget.ID,
		budget.CategoryID,
		budget.Amount.String(),
		budget.Period.String(),
		budget.Currency,
		budget.Spent.String(),
		budget.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}

	return nil
}

// GetByID retrieves a budget by its ID
func (r *budgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	query := `
		SELECT id, category_id, limit_amount, period, currency, spent, created_at
		FROM budgets
		WHERE id = $1
	`

	budget, err := scanBudget(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: budget %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get budget by ID: %w", err)
	}
	return budget, nil
}

// GetAll retrieves every stored budget
func (r *budgetRepository) GetAll(ctx context.Context) ([]*domain.Budget, error) {
	query := `
		SELECT id, category_id, limit_amount, period, currency, spent, created_at
		FROM budgets
		ORDER BY period DESC
	`
	return r.queryBudgets(ctx, query)
}

// GetByCategory retrieves budgets for exactly the given category
func (r *budgetRepository) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Budget, error) {
	query := `
		SELECT id, category_id, limit_amount, period, currency, spent, created_at
		FROM budgets
		WHERE category_id = $1
		ORDER BY period DESC
	`
	return r.queryBudgets(ctx, query, categoryID)
}

// GetByPeriod retrieves budgets scoped to the given calendar month
func (r *budgetRepository) GetByPeriod(ctx context.Context, period domain.Period) ([]*domain.Budget, error) {
	query := `
		SELECT id, category_id, limit_amount, period, currency, spent, created_at
		FROM budgets
		WHERE period = $1
	`
	return r.queryBudgets(ctx, query, period.String())
}

// DeleteByID removes a budget
func (r *budgetRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: budget %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *budgetRepository) queryBudgets(ctx context.Context, query string, args ...interface{}) ([]*domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

func scanBudget(row rowScanner) (*domain.Budget, error) {
	var budget domain.Budget
	var limitStr, periodStr, spentStr string

	err := row.Scan(
		&budget.ID,
		&budget.CategoryID,
		&limitStr,
		&periodStr,
		&budget.Currency,
		&spentStr,
		&budget.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	limit, err := decimal.NewFromString(limitStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse limit_amount: %w", err)
	}
	budget.Amount = limit

	spent, err := decimal.NewFromString(spentStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse spent: %w", err)
	}
	budget.Spent = spent

	period, err := domain.ParsePeriod(periodStr)
	if err != nil {
		return nil, err
	}
	budget.Period = period

	return &budget, nil
}
