package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType discriminates the closed set of transaction variants.
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "INCOME"
	TransactionTypeExpense    TransactionType = "EXPENSE"
	TransactionTypeInvestment TransactionType = "INVESTMENT"
)

// behavior carries the per-variant rules: how to validate the amount and the
// sign of the balance impact. All three variants currently require a strictly
// positive amount; the rules are kept separate so they can diverge later.
type behavior struct {
	validateAmount func(decimal.Decimal) error
	impactSign     int64
}

var behaviors = map[TransactionType]behavior{
	TransactionTypeIncome: {
		validateAmount: requirePositive("income"),
		impactSign:     1,
	},
	TransactionTypeExpense: {
		validateAmount: requirePositive("expense"),
		impactSign:     -1,
	},
	// Investments are modeled as outflows from the current-period balance.
	TransactionTypeInvestment: {
		validateAmount: requirePositive("investment"),
		impactSign:     -1,
	},
}

func requirePositive(kind string) func(decimal.Decimal) error {
	return func(amount decimal.Decimal) error {
		if amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: %s amount must be positive", ErrValidation, kind)
		}
		return nil
	}
}

// Transaction is an immutable record of a monetary movement. It references
// its category by ID and never owns it.
type Transaction struct {
	ID          uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	CategoryID  uuid.UUID
	Currency    string
	Timestamp   time.Time
}

// NewTransaction creates a transaction of the given variant, validating the
// amount under the variant's rule.
func NewTransaction(tt TransactionType, amount decimal.Decimal, description string, categoryID uuid.UUID, currency string) (*Transaction, error) {
	b, ok := behaviors[tt]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported transaction type %q", ErrValidation, tt)
	}
	if err := b.validateAmount(amount); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description cannot be empty", ErrValidation)
	}
	if categoryID == uuid.Nil {
		return nil, fmt.Errorf("%w: category cannot be empty", ErrValidation)
	}
	if currency == "" {
		return nil, fmt.Errorf("%w: currency cannot be empty", ErrValidation)
	}
	return &Transaction{
		ID:          uuid.New(),
		Type:        tt,
		Amount:      amount,
		Description: description,
		CategoryID:  categoryID,
		Currency:    currency,
		Timestamp:   time.Now(),
	}, nil
}

// NewIncome creates an income transaction.
func NewIncome(amount decimal.Decimal, description string, categoryID uuid.UUID, currency string) (*Transaction, error) {
	return NewTransaction(TransactionTypeIncome, amount, description, categoryID, currency)
}

// NewExpense creates an expense transaction.
func NewExpense(amount decimal.Decimal, description string, categoryID uuid.UUID, currency string) (*Transaction, error) {
	return NewTransaction(TransactionTypeExpense, amount, description, categoryID, currency)
}

// NewInvestment creates an investment transaction.
func NewInvestment(amount decimal.Decimal, description string, categoryID uuid.UUID, currency string) (*Transaction, error) {
	return NewTransaction(TransactionTypeInvestment, amount, description, categoryID, currency)
}

// BalanceImpact returns the signed effect on the balance: +Amount for income,
// -Amount for expenses and investments.
func (t *Transaction) BalanceImpact() decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromInt(behaviors[t.Type].impactSign))
}

// Period returns the calendar month the transaction falls in.
func (t *Transaction) Period() Period {
	return PeriodOf(t.Timestamp)
}
