package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category represents a named node in the category hierarchy used to classify
// transactions and budgets. The parent link is a non-owning ID reference; the
// owning side of the relation lives in the Tree, which derives the children
// sets from these links.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	ParentID    *uuid.UUID // nil for root categories
	CreatedAt   time.Time
}

// NewCategory creates a standalone root category.
func NewCategory(name, description string) (*Category, error) {
	c := &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate ensures the category adheres to domain rules.
func (c *Category) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return fmt.Errorf("%w: category cannot be its own parent", ErrCycle)
	}
	return nil
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
