package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testPeriod() Period {
	return Period{Year: 2026, Month: time.September}
}

func TestNewBudget_Validation(t *testing.T) {
	categoryID := uuid.New()

	tests := []struct {
		name       string
		categoryID uuid.UUID
		amount     decimal.Decimal
		period     Period
		currency   string
		wantErr    bool
		errMsg     string
	}{
		{
			name:       "valid budget",
			categoryID: categoryID,
			amount:     decimal.NewFromInt(400),
			period:     testPeriod(),
			currency:   "EUR",
		},
		{
			name:       "missing category fails",
			categoryID: uuid.Nil,
			amount:     decimal.NewFromInt(400),
			period:     testPeriod(),
			currency:   "EUR",
			wantErr:    true,
			errMsg:     "budget category cannot be empty",
		},
		{
			name:       "zero amount fails",
			categoryID: categoryID,
			amount:     decimal.Zero,
			period:     testPeriod(),
			currency:   "EUR",
			wantErr:    true,
			errMsg:     "budget amount must be positive",
		},
		{
			name:       "negative amount fails",
			categoryID: categoryID,
			amount:     decimal.NewFromInt(-100),
			period:     testPeriod(),
			currency:   "EUR",
			wantErr:    true,
			errMsg:     "budget amount must be positive",
		},
		{
			name:       "zero period fails",
			categoryID: categoryID,
			amount:     decimal.NewFromInt(400),
			period:     Period{},
			currency:   "EUR",
			wantErr:    true,
			errMsg:     "budget period cannot be empty",
		},
		{
			name:       "empty currency fails",
			categoryID: categoryID,
			amount:     decimal.NewFromInt(400),
			period:     testPeriod(),
			wantErr:    true,
			errMsg:     "budget currency cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget, err := NewBudget(tt.categoryID, tt.amount, tt.period, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, budget)
				return
			}
			assert.NoError(t, err)
			assert.True(t, budget.Spent.IsZero())
			assert.NotEqual(t, uuid.Nil, budget.ID)
		})
	}
}

func TestBudget_AddAndRemoveExpense(t *testing.T) {
	budget, err := NewBudget(uuid.New(), decimal.NewFromInt(100), testPeriod(), "EUR")
	assert.NoError(t, err)

	assert.NoError(t, budget.AddExpense(decimal.NewFromInt(60)))
	assert.True(t, decimal.NewFromInt(60).Equal(budget.Spent))
	assert.True(t, decimal.NewFromInt(40).Equal(budget.Remaining()))

	assert.NoError(t, budget.RemoveExpense(decimal.NewFromInt(20)))
	assert.True(t, decimal.NewFromInt(40).Equal(budget.Spent))

	// Removing more than was recorded clamps at zero.
	assert.NoError(t, budget.RemoveExpense(decimal.NewFromInt(500)))
	assert.True(t, budget.Spent.IsZero())
}

func TestBudget_NegativeAmountsRejected(t *testing.T) {
	budget, err := NewBudget(uuid.New(), decimal.NewFromInt(100), testPeriod(), "EUR")
	assert.NoError(t, err)

	err = budget.AddExpense(decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, ErrValidation)

	err = budget.RemoveExpense(decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, ErrValidation)

	assert.True(t, budget.Spent.IsZero())
}

func TestBudget_UsagePercentage(t *testing.T) {
	tests := []struct {
		name  string
		limit int64
		spent int64
		want  string
	}{
		{name: "empty", limit: 100, spent: 0, want: "0"},
		{name: "half", limit: 100, spent: 50, want: "50"},
		{name: "exact limit", limit: 100, spent: 100, want: "100"},
		{name: "over limit", limit: 40, spent: 50, want: "125"},
		{name: "rounded", limit: 3, spent: 1, want: "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget, err := NewBudget(uuid.New(), decimal.NewFromInt(tt.limit), testPeriod(), "EUR")
			assert.NoError(t, err)
			assert.NoError(t, budget.AddExpense(decimal.NewFromInt(tt.spent)))

			want, err := decimal.NewFromString(tt.want)
			assert.NoError(t, err)
			assert.True(t, want.Equal(budget.UsagePercentage()),
				"want %s, got %s", want, budget.UsagePercentage())
		})
	}
}

func TestBudget_UsagePercentage_ZeroLimit(t *testing.T) {
	budget := &Budget{Amount: decimal.Zero, Spent: decimal.NewFromInt(10)}
	assert.True(t, budget.UsagePercentage().IsZero())
}

func TestBudget_Thresholds(t *testing.T) {
	tests := []struct {
		name          string
		spent         int64
		wantNearLimit bool
		wantExceeded  bool
	}{
		{name: "well under", spent: 50},
		{name: "just under threshold", spent: 89},
		{name: "at threshold", spent: 90, wantNearLimit: true},
		{name: "at limit", spent: 100, wantNearLimit: true},
		{name: "over limit", spent: 101, wantNearLimit: true, wantExceeded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget, err := NewBudget(uuid.New(), decimal.NewFromInt(100), testPeriod(), "EUR")
			assert.NoError(t, err)
			assert.NoError(t, budget.AddExpense(decimal.NewFromInt(tt.spent)))

			assert.Equal(t, tt.wantNearLimit, budget.IsNearLimit())
			assert.Equal(t, tt.wantExceeded, budget.IsExceeded())
		})
	}
}

func TestBudget_ResetSpent(t *testing.T) {
	budget, err := NewBudget(uuid.New(), decimal.NewFromInt(100), testPeriod(), "EUR")
	assert.NoError(t, err)
	assert.NoError(t, budget.AddExpense(decimal.NewFromInt(75)))

	budget.ResetSpent()
	assert.True(t, budget.Spent.IsZero())
}
