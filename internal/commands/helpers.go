package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbook-dev/finbook/internal/domain"
)

// resolveCategory accepts either a category UUID or a category name
// (case-insensitive) and returns the matching category.
func resolveCategory(ctx context.Context, a *app, ref string) (*domain.Category, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return a.CategoryRepo.GetByID(ctx, id)
	}

	tree, err := a.Ledger.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}
	if c := tree.FindByName(ref); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: category %q", domain.ErrNotFound, ref)
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", domain.ErrValidation, s)
	}
	return amount, nil
}

// parsePeriodFlag parses a YYYY-MM flag value, defaulting to the current
// month when the flag is empty.
func parsePeriodFlag(s string) (domain.Period, error) {
	if s == "" {
		return domain.CurrentPeriod(), nil
	}
	return domain.ParsePeriod(s)
}

func formatMoney(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}
