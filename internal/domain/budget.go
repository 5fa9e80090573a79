package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// nearLimitThreshold is the usage percentage at which a budget counts as near
// its limit.
var nearLimitThreshold = decimal.NewFromInt(90)

// Budget is a spending limit for one category in one calendar month, with a
// running spent total. Amount, category, period and currency are immutable;
// Spent mutates through AddExpense/RemoveExpense only.
type Budget struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal // the limit
	Period     Period
	Currency   string
	Spent      decimal.Decimal
	CreatedAt  time.Time
}

// NewBudget creates a budget with a zero spent total.
func NewBudget(categoryID uuid.UUID, amount decimal.Decimal, period Period, currency string) (*Budget, error) {
	if categoryID == uuid.Nil {
		return nil, fmt.Errorf("%w: budget category cannot be empty", ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: budget amount must be positive", ErrValidation)
	}
	if period.IsZero() {
		return nil, fmt.Errorf("%w: budget period cannot be empty", ErrValidation)
	}
	if currency == "" {
		return nil, fmt.Errorf("%w: budget currency cannot be empty", ErrValidation)
	}
	return &Budget{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Amount:     amount,
		Period:     period,
		Currency:   currency,
		Spent:      decimal.Zero,
		CreatedAt:  time.Now(),
	}, nil
}

// AddExpense adds an expense to the running spent total.
func (b *Budget) AddExpense(amount decimal.Decimal) error {
	if amount.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: expense amount cannot be negative", ErrValidation)
	}
	b.Spent = b.Spent.Add(amount)
	return nil
}

// RemoveExpense reverses a previously recorded expense. The spent total is
// clamped at zero even when removals exceed recorded spend.
func (b *Budget) RemoveExpense(amount decimal.Decimal) error {
	if amount.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: expense amount cannot be negative", ErrValidation)
	}
	b.Spent = b.Spent.Sub(amount)
	if b.Spent.LessThan(decimal.Zero) {
		b.Spent = decimal.Zero
	}
	return nil
}

// ResetSpent clears the spent total, e.g. before a backfill replay.
func (b *Budget) ResetSpent() {
	b.Spent = decimal.Zero
}

// Remaining returns limit minus spent. May be negative once exceeded.
func (b *Budget) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.Spent)
}

// UsagePercentage returns spent/limit as a percentage, computed at four
// decimal places with half-up rounding before scaling.
func (b *Budget) UsagePercentage() decimal.Decimal {
	if b.Amount.IsZero() {
		return decimal.Zero
	}
	return b.Spent.DivRound(b.Amount, 4).Mul(decimal.NewFromInt(100))
}

// IsExceeded reports whether the spent total has passed the limit.
func (b *Budget) IsExceeded() bool {
	return b.Spent.GreaterThan(b.Amount)
}

// IsNearLimit reports whether usage has reached 90% of the limit.
func (b *Budget) IsNearLimit() bool {
	return b.UsagePercentage().GreaterThanOrEqual(nearLimitThreshold)
}
