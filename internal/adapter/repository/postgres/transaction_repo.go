package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbook-dev/finbook/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Save inserts or updates a transaction
func (r *transactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, type, amount, description, category_id, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET type = EXCLUDED.type,
		    amount = EXCLUDED.amount,
		    description = EXCLUDED.description,
		    category_id = EXCLUDED.category_id,
		    currency = EXCLUDED.currency
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		string(tx.Type),
		tx.Amount.String(),
		tx.Description,
		tx.CategoryID,
		tx.Currency,
		tx.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID
func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `
		SELECT id, type, amount, description, category_id, currency, created_at
		FROM transactions
		WHERE id = $1
	`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}
	return tx, nil
}

// GetAll retrieves every stored transaction
func (r *transactionRepository) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	query := `
		SELECT id, type, amount, description, category_id, currency, created_at
		FROM transactions
		ORDER BY created_at
	`
	return r.queryTransactions(ctx, query)
}

// GetByCategory retrieves transactions recorded against exactly the given category
func (r *transactionRepository) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, type, amount, description, category_id, currency, created_at
		FROM transactions
		WHERE category_id = $1
		ORDER BY created_at
	`
	return r.queryTransactions(ctx, query, categoryID)
}

// GetByType retrieves transactions of one variant
func (r *transactionRepository) GetByType(ctx context.Context, tt domain.TransactionType) ([]*domain.Transaction, error) {
	query := `
		SELECT id, type, amount, description, category_id, currency, created_at
		FROM transactions
		WHERE type = $1
		ORDER BY created_at
	`
	return r.queryTransactions(ctx, query, string(tt))
}

// GetByDateRange retrieves transactions with start <= created_at < end
func (r *transactionRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT id, type, amount, description, category_id, currency, created_at
		FROM transactions
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at
	`
	return r.queryTransactions(ctx, query, start, end)
}

// DeleteByID removes a transaction
func (r *transactionRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *transactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var txType string
	var amountStr string

	err := row.Scan(
		&tx.ID,
		&txType,
		&amountStr,
		&tx.Description,
		&tx.CategoryID,
		&tx.Currency,
		&tx.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	tx.Type = domain.TransactionType(txType)

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	tx.Amount = amount

	return &tx, nil
}
