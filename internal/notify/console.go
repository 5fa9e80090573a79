package notify

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbook-dev/finbook/internal/domain"
)

const timestampLayout = "02/01/2006 15:04:05"

// PathResolver maps a category ID to a printable path. The console observer
// only knows budgets by category ID; the composition root supplies the lookup.
type PathResolver func(categoryID uuid.UUID) string

// ConsoleObserver renders budget events to a writer for the interactive
// console session.
type ConsoleObserver struct {
	out   io.Writer
	paths PathResolver
}

// NewConsoleObserver creates a console observer. A nil resolver falls back to
// printing raw category IDs.
func NewConsoleObserver(out io.Writer, paths PathResolver) *ConsoleObserver {
	if paths == nil {
		paths = func(id uuid.UUID) string { return id.String() }
	}
	return &ConsoleObserver{out: out, paths: paths}
}

// OnExpenseAdded prints a short confirmation for each recorded expense.
func (c *ConsoleObserver) OnExpenseAdded(budget *domain.Budget, amount decimal.Decimal) {
	fmt.Fprintf(c.out, "Expense recorded:\n")
	fmt.Fprintf(c.out, "   Category:  %s\n", c.paths(budget.CategoryID))
	fmt.Fprintf(c.out, "   Amount:    %s %s\n", amount, budget.Currency)
	fmt.Fprintf(c.out, "   Used:      %s%%\n", budget.UsagePercentage())
	fmt.Fprintf(c.out, "   Remaining: %s %s\n", budget.Remaining(), budget.Currency)
	fmt.Fprintf(c.out, "   Timestamp: %s\n\n", time.Now().Format(timestampLayout))
}

// OnBudgetNearLimit prints a warning when a budget crosses 90% usage.
func (c *ConsoleObserver) OnBudgetNearLimit(budget *domain.Budget, remaining decimal.Decimal) {
	rule := strings.Repeat("-", 50)
	fmt.Fprintf(c.out, "\nWARNING: budget near its limit!\n%s\n", rule)
	fmt.Fprintf(c.out, "Category:  %s\n", c.paths(budget.CategoryID))
	fmt.Fprintf(c.out, "Limit:     %s %s\n", budget.Amount, budget.Currency)
	fmt.Fprintf(c.out, "Spent:     %s %s\n", budget.Spent, budget.Currency)
	fmt.Fprintf(c.out, "Remaining: %s %s\n", remaining, budget.Currency)
	fmt.Fprintf(c.out, "Used:      %s%%\n", budget.UsagePercentage())
	fmt.Fprintf(c.out, "Period:    %s\n%s\n\n", budget.Period, rule)
}

// OnBudgetExceeded prints a banner when a budget limit is crossed.
func (c *ConsoleObserver) OnBudgetExceeded(budget *domain.Budget, overspent decimal.Decimal) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(c.out, "\n%s\nBUDGET EXCEEDED!\n%s\n", rule, rule)
	fmt.Fprintf(c.out, "Category:  %s\n", c.paths(budget.CategoryID))
	fmt.Fprintf(c.out, "Limit:     %s %s\n", budget.Amount, budget.Currency)
	fmt.Fprintf(c.out, "Spent:     %s %s\n", budget.Spent, budget.Currency)
	fmt.Fprintf(c.out, "Overspent: %s %s\n", overspent, budget.Currency)
	fmt.Fprintf(c.out, "Period:    %s\n%s\n\n", budget.Period, rule)
}
