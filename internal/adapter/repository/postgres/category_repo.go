package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finbook-dev/finbook/internal/domain"
)

// categoryRepository implements domain.CategoryRepository
type categoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

// Save inserts or updates a category
func (r *categoryRepository) Save(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, description, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    parent_id = EXCLUDED.parent_id
	`

	var parentID interface{}
	if category.ParentID != nil {
		parentID = *category.ParentID
	}

	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		parentID,
		category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by its ID
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT id, name, description, parent_id, created_at
		FROM categories
		WHERE id = $1
	`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	return category, nil
}

// GetAll retrieves every stored category
func (r *categoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, description, parent_id, created_at
		FROM categories
		ORDER BY name
	`
	return r.queryCategories(ctx, query)
}

// GetByParent retrieves the direct subcategories of a category
func (r *categoryRepository) GetByParent(ctx context.Context, parentID uuid.UUID) ([]*domain.Category, error) {
	query := `
		SELECT id, name, description, parent_id, created_at
		FROM categories
		WHERE parent_id = $1
		ORDER BY name
	`
	return r.queryCategories(ctx, query, parentID)
}

// GetRoots retrieves every category without a parent
func (r *categoryRepository) GetRoots(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, description, parent_id, created_at
		FROM categories
		WHERE parent_id IS NULL
		ORDER BY name
	`
	return r.queryCategories(ctx, query)
}

// Count returns the number of stored categories
func (r *categoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// DeleteByID removes a category
func (r *categoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *categoryRepository) queryCategories(ctx context.Context, query string, args ...interface{}) ([]*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	var parentID sql.NullString

	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&parentID,
		&category.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		parentUUID, err := uuid.Parse(parentID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse parent_id: %w", err)
		}
		category.ParentID = &parentUUID
	}

	return &category, nil
}
