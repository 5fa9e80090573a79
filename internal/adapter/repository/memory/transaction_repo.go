package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finbook-dev/finbook/internal/domain"
)

// transactionRepository implements domain.TransactionRepository.
type transactionRepository struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]domain.Transaction
}

// NewTransactionRepository creates an empty in-memory transaction repository.
func NewTransactionRepository() domain.TransactionRepository {
	return &transactionRepository{transactions: make(map[uuid.UUID]domain.Transaction)}
}

func (r *transactionRepository) Save(_ context.Context, tx *domain.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: transaction cannot be nil", domain.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[tx.ID] = *tx
	return nil
}

func (r *transactionRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", domain.ErrNotFound, id)
	}
	return &tx, nil
}

func (r *transactionRepository) GetAll(_ context.Context) ([]*domain.Transaction, error) {
	return r.filter(func(*domain.Transaction) bool { return true })
}

func (r *transactionRepository) GetByCategory(_ context.Context, categoryID uuid.UUID) ([]*domain.Transaction, error) {
	return r.filter(func(tx *domain.Transaction) bool { return tx.CategoryID == categoryID })
}

func (r *transactionRepository) GetByType(_ context.Context, tt domain.TransactionType) ([]*domain.Transaction, error) {
	return r.filter(func(tx *domain.Transaction) bool { return tx.Type == tt })
}

func (r *transactionRepository) GetByDateRange(_ context.Context, start, end time.Time) ([]*domain.Transaction, error) {
	return r.filter(func(tx *domain.Transaction) bool {
		return !tx.Timestamp.Before(start) && tx.Timestamp.Before(end)
	})
}

func (r *transactionRepository) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[id]; !ok {
		return fmt.Errorf("%w: transaction %s", domain.ErrNotFound, id)
	}
	delete(r.transactions, id)
	return nil
}

// filter returns copies of the stored transactions matching the predicate,
// ordered by timestamp for stable listings.
func (r *transactionRepository) filter(keep func(*domain.Transaction) bool) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Transaction
	for _, tx := range r.transactions {
		clone := tx
		if keep(&clone) {
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
