package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finbook-dev/finbook/internal/domain"
)

// Quick-entry shortcuts: "finbook expense 42.50 'Weekly shop' --category
// Groceries" instead of the full tx add form.
func newQuickAddCommand(use, short string, txType domain.TransactionType) *cobra.Command {
	var (
		categoryRef string
		currency    string
	)

	cmd := &cobra.Command{
		Use:   use + " <amount> <description>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			amount, err := parseAmount(args[0])
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

			tx, err := domain.NewTransaction(txType, amount, args[1], category.ID, currency)
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

	cmd.Flags().StringVar(&categoryRef, "category", "", "category name or ID")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default: configured currency)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
