// Package suggest implements budget suggestion heuristics. A Strategy is a
// narrow interface taking a category, period income and spending history and
// returning a suggested Budget; callers can plug in their own.
package suggest

import (
	"github.com/shopspring/decimal"

	"github.com/finbook-dev/finbook/internal/domain"
)

// Strategy calculates a suggested budget for a category from the period's
// total income and the category's historical transactions. The history passed
// in is already scoped to the category's subtree.
type Strategy interface {
	SuggestBudget(category *domain.Category, totalIncome decimal.Decimal, history []*domain.Transaction, period domain.Period, currency string) (*domain.Budget, error)
	Name() string
	Description() string
}

// averageExpense returns the mean expense amount in the history, rounded to
// two decimal places half-up, or zero when there are no expenses.
func averageExpense(history []*domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	count := int64(0)
	for _, tx := range history {
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		total = total.Add(tx.Amount)
		count++
	}
	if count == 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(count), 2)
}

// Conservative favors saving: it trims the historical average by a safety
// margin and caps each category at 25% of the period's income.
type Conservative struct{}

var (
	conservativeSafetyMargin = decimal.RequireFromString("0.85")
	conservativeCategoryCap  = decimal.RequireFromString("0.25")
	conservativeIncomeFloor  = decimal.RequireFromString("0.05")
	conservativeMinimum      = decimal.NewFromInt(50)
)

// SuggestBudget implements Strategy.
func (Conservative) SuggestBudget(category *domain.Category, totalIncome decimal.Decimal, history []*domain.Transaction, period domain.Period, currency string) (*domain.Budget, error) {
	suggested := averageExpense(history).Mul(conservativeSafetyMargin)

	maxAllowed := totalIncome.Mul(conservativeCategoryCap)
	if suggested.GreaterThan(maxAllowed) {
		suggested = maxAllowed
	}
	if suggested.LessThanOrEqual(decimal.Zero) {
		suggested = totalIncome.Mul(conservativeIncomeFloor)
	}
	if suggested.LessThan(decimal.NewFromInt(10)) {
		suggested = conservativeMinimum
	}

	return domain.NewBudget(category.ID, suggested, period, currency)
}

// Name implements Strategy.
func (Conservative) Name() string { return "Conservative" }

// Description implements Strategy.
func (Conservative) Description() string {
	return "Trims historical spending by a 15% safety margin and caps each category at 25% of income."
}

// Aggressive maximizes usable income: it grows the historical average and
// allows up to 40% of the period's income per category.
type Aggressive struct{}

var (
	aggressiveGrowthFactor = decimal.RequireFromString("1.15")
	aggressiveCategoryCap  = decimal.RequireFromString("0.40")
	aggressiveIncomeFloor  = decimal.RequireFromString("0.10")
	aggressiveMinimum      = decimal.NewFromInt(100)
)

// SuggestBudget implements Strategy.
func (Aggressive) SuggestBudget(category *domain.Category, totalIncome decimal.Decimal, history []*domain.Transaction, period domain.Period, currency string) (*domain.Budget, error) {
	suggested := averageExpense(history).Mul(aggressiveGrowthFactor)

	maxAllowed := totalIncome.Mul(aggressiveCategoryCap)
	if suggested.GreaterThan(maxAllowed) {
		suggested = maxAllowed
	}
	if suggested.LessThanOrEqual(decimal.Zero) {
		suggested = totalIncome.Mul(aggressiveIncomeFloor)
	}
	if suggested.LessThan(decimal.NewFromInt(20)) {
		suggested = aggressiveMinimum
	}

	return domain.NewBudget(category.ID, suggested, period, currency)
}

// Name implements Strategy.
func (Aggressive) Name() string { return "Aggressive" }

// Description implements Strategy.
func (Aggressive) Description() string {
	return "Grows historical spending by 15% and allows up to 40% of income per category."
}
