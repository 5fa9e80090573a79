package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/finbook-dev/finbook/internal/domain"
)

// budgetRepository implements domain.BudgetRepository.
type budgetRepository struct {
	mu      sync.Mutex
	budgets map[uuid.UUID]domain.Budget
}

// NewBudgetRepository creates an empty in-memory budget repository.
func NewBudgetRepository() domain.BudgetRepository {
	return &budgetRepository{budgets: make(map[uuid.UUID]domain.Budget)}
}

func (r *budgetRepository) Save(_ context.Context, budget *domain.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget cannot be nil", domain.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.budgets[budget.ID] = *budget
	return nil
}

func (r *budgetRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.budgets[id]
	if !ok {
		return nil, fmt.Errorf("%w: budget %s", domain.ErrNotFound, id)
	}
	return &b, nil
}

func (r *budgetRepository) GetAll(_ context.Context) ([]*domain.Budget, error) {
	return r.filter(func(*domain.Budget) bool { return true })
}

func (r *budgetRepository) GetByCategory(_ context.Context, categoryID uuid.UUID) ([]*domain.Budget, error) {
	return r.filter(func(b *domain.Budget) bool { return b.CategoryID == categoryID })
}

func (r *budgetRepository) GetByPeriod(_ context.Context, period domain.Period) ([]*domain.Budget, error) {
	return r.filter(func(b *domain.Budget) bool { return b.Period == period })
}

func (r *budgetRepository) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.budgets[id]; !ok {
		return fmt.Errorf("%w: budget %s", domain.ErrNotFound, id)
	}
	delete(r.budgets, id)
	return nil
}

func (r *budgetRepository) filter(keep func(*domain.Budget) bool) ([]*domain.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Budget
	for _, b := range r.budgets {
		clone := b
		if keep(&clone) {
			out = append(out, &clone)
		}
	}
	return out, nil
}
