package postgres

import (
	"context"
	"fmt"
)

// schemaStatements bootstrap the database. Statements are idempotent so the
// schema can be ensured at every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		parent_id UUID REFERENCES categories(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id)`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		type TEXT NOT NULL,
		amount NUMERIC(18,2) NOT NULL,
		description TEXT NOT NULL,
		category_id UUID NOT NULL REFERENCES categories(id),
		currency TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at)`,

	`CREATE TABLE IF NOT EXISTS budgets (
		id UUID PRIMARY KEY,
		category_id UUID NOT NULL REFERENCES categories(id),
		limit_amount NUMERIC(18,2) NOT NULL,
		period CHAR(7) NOT NULL,
		currency TEXT NOT NULL,
		spent NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budgets_period ON budgets(period)`,
	`CREATE INDEX IF NOT EXISTS idx_budgets_category ON budgets(category_id)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
