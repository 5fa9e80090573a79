// Package memory provides map-backed implementations of the domain
// repository interfaces. It is the default store for the console session and
// the workhorse for tests; entities are copied on the way in and out so the
// store never aliases caller state.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/finbook-dev/finbook/internal/domain"
)

// categoryRepository implements domain.CategoryRepository.
type categoryRepository struct {
	mu         sync.Mutex
	categories map[uuid.UUID]domain.Category
}

// NewCategoryRepository creates an empty in-memory category repository.
func NewCategoryRepository() domain.CategoryRepository {
	return &categoryRepository{categories: make(map[uuid.UUID]domain.Category)}
}

func (r *categoryRepository) Save(_ context.Context, category *domain.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category cannot be nil", domain.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = cloneCategory(category)
	return nil
}

func (r *categoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %s", domain.ErrNotFound, id)
	}
	out := cloneCategory(&c)
	return &out, nil
}

func (r *categoryRepository) GetAll(_ context.Context) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		clone := cloneCategory(&c)
		out = append(out, &clone)
	}
	return out, nil
}

func (r *categoryRepository) GetByParent(_ context.Context, parentID uuid.UUID) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Category
	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			clone := cloneCategory(&c)
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *categoryRepository) GetRoots(_ context.Context) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Category
	for _, c := range r.categories {
		if c.ParentID == nil {
			clone := cloneCategory(&c)
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *categoryRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.categories), nil
}

func (r *categoryRepository) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("%w: category %s", domain.ErrNotFound, id)
	}
	delete(r.categories, id)
	return nil
}

// cloneCategory copies a category, giving the parent link its own backing
// storage.
func cloneCategory(c *domain.Category) domain.Category {
	clone := *c
	if c.ParentID != nil {
		pid := *c.ParentID
		clone.ParentID = &pid
	}
	return clone
}
