package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/expense-tracker/internal/domain"
)

// CategoryRepository encapsulates category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

const categorySelect = `
        SELECT c.category_id, c.user_id, c.title, c.description,
               COALESCE(SUM(t.amount), 0) AS total_expense
        FROM categories c
        LEFT JOIN transactions t ON c.category_id = t.category_id`

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (user_id, title, description)
        VALUES ($1, $2, $3)
        RETURNING category_id`

	return r.pool.QueryRow(ctx, query,
		category.UserID,
		category.Title,
		category.Description,
	).Scan(&category.ID)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE categories SET title=$1, description=$2
        WHERE category_id=$3`

	cmd, err := r.pool.Exec(ctx, query,
		category.Title,
		category.Description,
		category.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the category; its transactions go with it via the FK
// cascade.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM categories WHERE category_id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := categorySelect + `
        WHERE c.category_id = $1
        GROUP BY c.category_id`

	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.UserID,
		&category.Title,
		&category.Description,
		&category.TotalExpense,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Category, error) {
	query := categorySelect + `
        WHERE c.user_id = $1
        GROUP BY c.category_id
        ORDER BY c.category_id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Category, 0)
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.UserID,
			&category.Title,
			&category.Description,
			&category.TotalExpense,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
