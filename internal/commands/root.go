// Package commands wires the interactive console: cobra commands, viper
// configuration and the composition of stores, services and observers. All
// business rules live below in the usecase and domain packages; this layer
// only collects input and formats output.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finbook-dev/finbook/internal/domain"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "finbook",
		Short: "Personal finance tracker with category budgets",
		Long: `finbook records income, expense and investment transactions against a
hierarchical category tree, enforces monthly budgets per category and prints
simple aggregate reports.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default: $HOME/.config/finbook/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("store", "postgres", "backing store (postgres, memory)")
	rootCmd.PersistentFlags().String("currency", "EUR", "default currency code")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("store.kind", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("currency", rootCmd.PersistentFlags().Lookup("currency"))

	rootCmd.AddCommand(newQuickAddCommand("income", "Record an income", domain.TransactionTypeIncome))
	rootCmd.AddCommand(newQuickAddCommand("expense", "Record an expense", domain.TransactionTypeExpense))
	rootCmd.AddCommand(newQuickAddCommand("invest", "Record an investment", domain.TransactionTypeInvestment))
	rootCmd.AddCommand(newTransactionCommand())
	rootCmd.AddCommand(newCategoryCommand())
	rootCmd.AddCommand(newBudgetCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newDemoCommand())

	return rootCmd
}

func initConfig(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		viper.AddConfigPath(home + "/.config/finbook")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FINBOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.name", "finbook")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	setupLogging()
	return nil
}

func setupLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(viper.GetString("logging.level")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if viper.GetString("logging.format") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
