// Package notify implements the budget notification subject: an observer
// registry that detects edge-triggered budget state transitions and dispatches
// events synchronously on the calling goroutine.
package notify

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/finbook-dev/finbook/internal/domain"
)

// Observer receives budget events. Callbacks run synchronously on the caller's
// goroutine and must not re-enter the ledger service.
type Observer interface {
	// OnExpenseAdded fires for every expense applied to a budget.
	OnExpenseAdded(budget *domain.Budget, amount decimal.Decimal)

	// OnBudgetNearLimit fires when a budget transitions into near-limit state.
	OnBudgetNearLimit(budget *domain.Budget, remaining decimal.Decimal)

	// OnBudgetExceeded fires when a budget transitions into exceeded state.
	OnBudgetExceeded(budget *domain.Budget, overspent decimal.Decimal)
}

// Subject maintains the observer registry and drives event dispatch.
type Subject struct {
	observers []Observer
}

// NewSubject creates a subject with no observers.
func NewSubject() *Subject {
	return &Subject{}
}

// AddObserver registers an observer. Registering the same observer instance
// twice has no additional effect.
func (s *Subject) AddObserver(o Observer) {
	if o == nil {
		return
	}
	for _, existing := range s.observers {
		if existing == o {
			return
		}
	}
	s.observers = append(s.observers, o)
}

// RemoveObserver unregisters an observer. Unknown observers are ignored.
func (s *Subject) RemoveObserver(o Observer) {
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// ClearObservers removes every registered observer.
func (s *Subject) ClearObservers() {
	s.observers = nil
}

// ObserverCount returns the number of registered observers.
func (s *Subject) ObserverCount() int {
	return len(s.observers)
}

// ProcessExpense applies an expense to a budget and dispatches the resulting
// events: ExpenseAdded always, then at most one of Exceeded or NearLimit.
// Both threshold events are edge-triggered, comparing the budget state
// snapshotted before the mutation, and Exceeded suppresses a simultaneous
// NearLimit crossing.
func (s *Subject) ProcessExpense(budget *domain.Budget, amount decimal.Decimal) error {
	wasNearLimit := budget.IsNearLimit()
	wasExceeded := budget.IsExceeded()

	if err := budget.AddExpense(amount); err != nil {
		return err
	}

	s.NotifyExpenseAdded(budget, amount)

	switch {
	case !wasExceeded && budget.IsExceeded():
		s.NotifyBudgetExceeded(budget)
	case !wasNearLimit && budget.IsNearLimit():
		s.NotifyBudgetNearLimit(budget)
	}
	return nil
}

// NotifyExpenseAdded delivers an ExpenseAdded event to every observer.
func (s *Subject) NotifyExpenseAdded(budget *domain.Budget, amount decimal.Decimal) {
	for _, o := range s.observers {
		s.deliver("expense_added", o, func(o Observer) {
			o.OnExpenseAdded(budget, amount)
		})
	}
}

// NotifyBudgetExceeded delivers an Exceeded event, carrying the overspent
// amount, to every observer.
func (s *Subject) NotifyBudgetExceeded(budget *domain.Budget) {
	overspent := budget.Spent.Sub(budget.Amount)
	for _, o := range s.observers {
		s.deliver("budget_exceeded", o, func(o Observer) {
			o.OnBudgetExceeded(budget, overspent)
		})
	}
}

// NotifyBudgetNearLimit delivers a NearLimit event, carrying the remaining
// amount, to every observer.
func (s *Subject) NotifyBudgetNearLimit(budget *domain.Budget) {
	remaining := budget.Remaining()
	for _, o := range s.observers {
		s.deliver("budget_near_limit", o, func(o Observer) {
			o.OnBudgetNearLimit(budget, remaining)
		})
	}
}

// deliver runs a single observer callback, containing any panic so one failing
// observer cannot block delivery to the others or reach the caller.
func (s *Subject) deliver(event string, o Observer, fn func(Observer)) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("budget observer failed", "event", event, "error", r)
		}
	}()
	fn(o)
}
