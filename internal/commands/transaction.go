package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finbook-dev/finbook/internal/domain"
)

func newTransactionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record and inspect transactions",
	}

	cmd.AddCommand(newTxAddCommand())
	cmd.AddCommand(newTxListCommand())
	cmd.AddCommand(newTxRemoveCommand())

	return cmd
}

func newTxAddCommand() *cobra.Command {
	var (
		txType      string
		amountStr   string
		description string
		categoryRef string
		currency    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income, expense or investment",
		Example: `  finbook tx add --type expense --amount 42.50 --description "Weekly shop" --category Groceries
  finbook tx add --type income --amount 2500 --description "Salary" --category Work`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			amount, err := parseAmount(amountStr)
			if err != nil {
				return err
			}
			category, err := resolveCategory(ctx, a, categoryRef)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = viper.GetString("currency")
			}

			tx, err := domain.NewTransaction(parseTxType(txType), amount, description, category.ID, currency)
			if err != nil {
				return err
			}
			if err := a.Ledger.AddTransaction(ctx, tx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s in %s (%s)\n",
				strings.ToLower(string(tx.Type)), formatMoney(tx.Amount, tx.Currency), category.Name, tx.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "expense", "transaction type (income, expense, investment)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "transaction amount")
	cmd.Flags().StringVar(&description, "description", "", "transaction description")
	cmd.Flags().StringVar(&categoryRef, "category", "", "category name or ID")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default: configured currency)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newTxListCommand() *cobra.Command {
	var (
		txType      string
		periodStr   string
		categoryRef string
		search      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, optionally filtered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var transactions []*domain.Transaction
			switch {
			case search != "":
				transactions, err = a.Ledger.SearchTransactions(ctx, search)
			case categoryRef != "":
				var category *domain.Category
				category, err = resolveCategory(ctx, a, categoryRef)
				if err != nil {
					return err
				}
				transactions, err = a.Ledger.TransactionsByCategory(ctx, category.ID)
			case txType != "":
				transactions, err = a.Ledger.TransactionsByType(ctx, parseTxType(txType))
			case periodStr != "":
				var period domain.Period
				period, err = domain.ParsePeriod(periodStr)
				if err != nil {
					return err
				}
				transactions, err = a.Ledger.TransactionsByPeriod(ctx, period)
			default:
				transactions, err = a.Ledger.Transactions(ctx)
			}
			if err != nil {
				return err
			}

			if len(transactions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions found.")
				return nil
			}

			tree, err := a.Ledger.CategoryTree(ctx)
			if err != nil {
				return err
			}
			for _, tx := range transactions {
				path, err := tree.FullPath(tx.CategoryID)
				if err != nil {
					path = tx.CategoryID.String()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s  %12s  %-30s  %s  (%s)\n",
					tx.Timestamp.Format("2006-01-02"),
					tx.Type,
					formatMoney(tx.Amount, tx.Currency),
					tx.Description,
					path,
					tx.ID,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "", "filter by type (income, expense, investment)")
	cmd.Flags().StringVar(&periodStr, "period", "", "filter by month (YYYY-MM)")
	cmd.Flags().StringVar(&categoryRef, "category", "", "filter by category name or ID, including subcategories")
	cmd.Flags().StringVar(&search, "search", "", "filter by description or category name")

	return cmd
}

func newTxRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <transaction-id>",
		Short: "Remove a transaction and reverse its budget impact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("%w: invalid transaction id %q", domain.ErrValidation, args[0])
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Ledger.RemoveTransaction(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed transaction %s\n", id)
			return nil
		},
	}
}

func parseTxType(s string) domain.TransactionType {
	return domain.TransactionType(strings.ToUpper(strings.TrimSpace(s)))
}
