package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finbook-dev/finbook/internal/domain"
)

func newBudgetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly category budgets",
	}

	cmd.AddCommand(newBudgetSetCommand())
	cmd.AddCommand(newBudgetListCommand())
	cmd.AddCommand(newBudgetRemoveCommand())
	cmd.AddCommand(newBudgetSuggestCommand())

	return cmd
}

func newBudgetSetCommand() *cobra.Command {
	var (
		categoryRef string
		amountStr   string
		periodStr   string
		currency    string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the budget for a category and month",
		Long: `Set the budget for a category and month. Setting a budget for a pair that
already has one replaces it. Expenses already recorded for that month count
against the new budget immediately.`,
		Example: `  finbook budget set --category Groceries --amount 400
  finbook budget set --category Transport --amount 150 --period 2026-10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := resolveCategory(ctx, a, categoryRef)
			if err != nil {
				return err
			}
			amount, err := parseAmount(amountStr)
			if err != nil {
				return err
			}
			period, err := parsePeriodFlag(periodStr)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = viper.GetString("currency")
			}

			budget, err := domain.NewBudget(category.ID, amount, period, currency)
			if err != nil {
				return err
			}
			if err := a.Ledger.AddBudget(ctx, budget); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s in %s set to %s (spent so far: %s)\n",
				category.Name, period, formatMoney(budget.Amount, budget.Currency), formatMoney(budget.Spent, budget.Currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryRef, "category", "", "category name or ID")
	cmd.Flags().StringVar(&amountStr, "amount", "", "budget limit")
	cmd.Flags().StringVar(&periodStr, "period", "", "month (YYYY-MM, default: current month)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default: configured currency)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newBudgetListCommand() *cobra.Command {
	var (
		periodStr string
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets with usage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var budgets []*domain.Budget
			if all {
				budgets, err = a.Ledger.Budgets(ctx)
			} else {
				var period domain.Period
				period, err = parsePeriodFlag(periodStr)
				if err != nil {
					return err
				}
				budgets, err = a.Ledger.BudgetsByPeriod(ctx, period)
			}
			if err != nil {
				return err
			}

			if len(budgets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No budgets found.")
				return nil
			}

			tree, err := a.Ledger.CategoryTree(ctx)
			if err != nil {
				return err
			}
			for _, b := range budgets {
				path, err := tree.FullPath(b.CategoryID)
				if err != nil {
					path = b.CategoryID.String()
				}
				status := ""
				switch {
				case b.IsExceeded():
					status = "  EXCEEDED"
				case b.IsNearLimit():
					status = "  NEAR LIMIT"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-40s  %s / %s  (%s%%)%s  (%s)\n",
					b.Period,
					path,
					formatMoney(b.Spent, b.Currency),
					formatMoney(b.Amount, b.Currency),
					b.UsagePercentage().StringFixed(1),
					status,
					b.ID,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&periodStr, "period", "", "month (YYYY-MM, default: current month)")
	cmd.Flags().BoolVar(&all, "all", false, "list budgets for every month")

	return cmd
}

func newBudgetRemoveCommand() *cobra.Command {
	var periodStr string

	cmd := &cobra.Command{
		Use:   "remove <category-name-or-id>",
		Short: "Remove the budget for a category and month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := resolveCategory(ctx, a, args[0])
			if err != nil {
				return err
			}
			period, err := parsePeriodFlag(periodStr)
			if err != nil {
				return err
			}
			budget, err := a.Ledger.BudgetForCategory(ctx, category.ID, period)
			if err != nil {
				return err
			}
			if err := a.Ledger.RemoveBudget(ctx, budget.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed budget for %s in %s\n", category.Name, period)
			return nil
		},
	}

	cmd.Flags().StringVar(&periodStr, "period", "", "month (YYYY-MM, default: current month)")

	return cmd
}

func newBudgetSuggestCommand() *cobra.Command {
	var (
		strategyName string
		periodStr    string
		currency     string
		apply        bool
	)

	cmd := &cobra.Command{
		Use:   "suggest <category-name-or-id>",
		Short: "Suggest a budget from past spending and income",
		Example: `  finbook budget suggest Groceries
  finbook budget suggest Transport --strategy aggressive --apply`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			suggester, err := a.Suggest(strategyName)
			if err != nil {
				return err
			}
			category, err := resolveCategory(ctx, a, args[0])
			if err != nil {
				return err
			}
			period, err := parsePeriodFlag(periodStr)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = viper.GetString("currency")
			}

			budget, err := suggester.SuggestedBudget(ctx, category.ID, period, currency)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Suggested budget for %s in %s: %s (%s strategy)\n",
				category.Name, period, formatMoney(budget.Amount, budget.Currency), suggester.Strategy.Name())

			if apply {
				if err := a.Ledger.AddBudget(ctx, budget); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Budget applied.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", "conservative", "suggestion strategy (conservative, aggressive)")
	cmd.Flags().StringVar(&periodStr, "period", "", "month (YYYY-MM, default: current month)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default: configured currency)")
	cmd.Flags().BoolVar(&apply, "apply", false, "persist the suggested budget")

	return cmd
}
