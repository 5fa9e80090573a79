// Package seeder populates a fresh category store with a default hierarchy so
// the interactive console is usable on first run.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbook-dev/finbook/internal/domain"
)

// categorySpec describes one default category and its subcategories.
type categorySpec struct {
	name        string
	description string
	children    []categorySpec
}

var defaultCategories = []categorySpec{
	{
		name:        "Home",
		description: "Housing and household expenses",
		children: []categorySpec{
			{name: "Rent", description: "Monthly rent"},
			{name: "Mortgage", description: "Mortgage installments"},
			{
				name:        "Utilities",
				description: "Recurring utility bills",
				children: []categorySpec{
					{name: "Electricity", description: "Electricity bill"},
					{name: "Gas", description: "Gas bill"},
					{name: "Water", description: "Water bill"},
					{name: "Internet", description: "Internet and phone"},
				},
			},
			{name: "Maintenance", description: "Repairs and upkeep"},
		},
	},
	{
		name:        "Transport",
		description: "Transport and vehicle expenses",
		children: []categorySpec{
			{name: "Fuel", description: "Fuel and charging"},
			{name: "Car Insurance", description: "Vehicle insurance"},
			{name: "Public Transport", description: "Bus, metro, trains"},
			{name: "Parking", description: "Parking fees"},
		},
	},
	{
		name:        "Food",
		description: "Food and drink expenses",
		children: []categorySpec{
			{name: "Groceries", description: "Supermarket shopping"},
			{name: "Restaurants", description: "Eating out"},
			{name: "Delivery", description: "Food delivery"},
		},
	},
	{
		name:        "Health",
		description: "Medical and wellness expenses",
		children: []categorySpec{
			{name: "Doctor", description: "Visits and specialists"},
			{name: "Pharmacy", description: "Medicines"},
			{name: "Gym", description: "Fitness memberships"},
		},
	},
	{
		name:        "Leisure",
		description: "Entertainment and free time",
		children: []categorySpec{
			{name: "Streaming", description: "Subscriptions"},
			{name: "Travel", description: "Trips and holidays"},
		},
	},
	{
		name:        "Work",
		description: "Employment income",
	},
}

// DefaultSeeder seeds the default category hierarchy into an empty store.
type DefaultSeeder struct {
	repo domain.CategoryRepository
}

// NewDefaultSeeder creates a new DefaultSeeder instance.
func NewDefaultSeeder(repo domain.CategoryRepository) *DefaultSeeder {
	return &DefaultSeeder{repo: repo}
}

// Seed writes the default hierarchy when the store holds no categories yet.
// A non-empty store is left untouched, so the seeder is safe to run at every
// startup.
func (s *DefaultSeeder) Seed(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeded := 0
	for _, spec := range defaultCategories {
		n, err := s.seedSpec(ctx, spec, nil)
		if err != nil {
			return err
		}
		seeded += n
	}
	slog.Info("seeded default categories", "count", seeded)
	return nil
}

func (s *DefaultSeeder) seedSpec(ctx context.Context, spec categorySpec, parent *domain.Category) (int, error) {
	category, err := domain.NewCategory(spec.name, spec.description)
	if err != nil {
		return 0, err
	}
	if parent != nil {
		pid := parent.ID
		category.ParentID = &pid
	}
	if err := s.repo.Save(ctx, category); err != nil {
		return 0, fmt.Errorf("failed to seed category %q: %w", spec.name, err)
	}

	seeded := 1
	for _, child := range spec.children {
		n, err := s.seedSpec(ctx, child, category)
		if err != nil {
			return seeded, err
		}
		seeded += n
	}
	return seeded, nil
}
