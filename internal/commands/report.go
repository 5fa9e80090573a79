package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finbook-dev/finbook/internal/domain"
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate reports over transactions and budgets",
	}

	cmd.AddCommand(newReportBalanceCommand())
	cmd.AddCommand(newReportTrendCommand())
	cmd.AddCommand(newReportCategoriesCommand())
	cmd.AddCommand(newReportAlertsCommand())

	return cmd
}

func newReportBalanceCommand() *cobra.Command {
	var periodStr string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the monthly and overall balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			period, err := parsePeriodFlag(periodStr)
			if err != nil {
				return err
			}

			monthly, err := a.Reports.GetMonthlyBalance(ctx, period)
			if err != nil {
				return err
			}
			total, err := a.Reports.GetTotalBalance(ctx)
			if err != nil {
				return err
			}

			currency := viper.GetString("currency")
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Balance for %s\n", monthly.Period)
			fmt.Fprintf(out, "  Income:      %s\n", formatMoney(monthly.Income, currency))
			fmt.Fprintf(out, "  Expenses:    %s\n", formatMoney(monthly.Expenses, currency))
			fmt.Fprintf(out, "  Investments: %s\n", formatMoney(monthly.Investments, currency))
			fmt.Fprintf(out, "  Net:         %s\n", formatMoney(monthly.Balance, currency))
			fmt.Fprintf(out, "Overall balance: %s\n", formatMoney(total, currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&periodStr, "period", "", "month (YYYY-MM, default: current month)")

	return cmd
}

func newReportTrendCommand() *cobra.Command {
	var (
		periodStr string
		months    int
	)

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show the balance trend over recent months",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			end, err := parsePeriodFlag(periodStr)
			if err != nil {
				return err
			}

			points, err := a.Reports.GetMonthlyTrend(ctx, end, months)
			if err != nil {
				return err
			}

			currency := viper.GetString("currency")
			for _, p := range points {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", p.Period, formatMoney(p.Balance, currency))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&periodStr, "period", "", "last month of the trend (YYYY-MM, default: current month)")
	cmd.Flags().IntVar(&months, "months", 6, "number of months to include")

	return cmd
}

func newReportCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show total expenses grouped by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			totals, err := a.Reports.GetExpensesByCategory(ctx)
			if err != nil {
				return err
			}
			if len(totals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No expenses recorded.")
				return nil
			}

			names := make([]string, 0, len(totals))
			for name := range totals {
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool {
				return totals[names[i]].GreaterThan(totals[names[j]])
			})

			currency := viper.GetString("currency")
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", name, formatMoney(totals[name], currency))
			}
			return nil
		},
	}
}

func newReportAlertsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List budgets that are exceeded or near their limit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			exceeded, err := a.Reports.GetExceededBudgets(ctx)
			if err != nil {
				return err
			}
			nearLimit, err := a.Reports.GetBudgetsNearLimit(ctx)
			if err != nil {
				return err
			}

			if len(exceeded) == 0 && len(nearLimit) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "All budgets are within limits.")
				return nil
			}

			tree, err := a.Ledger.CategoryTree(ctx)
			if err != nil {
				return err
			}
			printAlerts(cmd, tree, "Exceeded:", exceeded)
			printAlerts(cmd, tree, "Near limit:", nearLimit)
			return nil
		},
	}
}

func printAlerts(cmd *cobra.Command, tree *domain.Tree, heading string, budgets []*domain.Budget) {
	if len(budgets) == 0 {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), heading)
	for _, b := range budgets {
		path, err := tree.FullPath(b.CategoryID)
		if err != nil {
			path = b.CategoryID.String()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s  %s / %s (%s%%)\n",
			b.Period, path,
			formatMoney(b.Spent, b.Currency),
			formatMoney(b.Amount, b.Currency),
			b.UsagePercentage().StringFixed(1),
		)
	}
}
