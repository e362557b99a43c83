package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/expense-tracker/internal/domain"
)

// TransactionRepository encapsulates transaction persistence.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	Update(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Transaction, error)
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository returns a Postgres-backed implementation.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	const query = `
        INSERT INTO transactions (category_id, user_id, amount, note, transaction_date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING transaction_id`

	return r.pool.QueryRow(ctx, query,
		tx.CategoryID,
		tx.UserID,
		tx.Amount,
		tx.Note,
		tx.TransactionDate,
	).Scan(&tx.ID)
}

func (r *transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	const query = `
        UPDATE transactions SET amount=$1, note=$2, transaction_date=$3
        WHERE transaction_id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		tx.Amount,
		tx.Note,
		tx.TransactionDate,
		tx.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM transactions WHERE transaction_id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	const query = `
        SELECT transaction_id, category_id, user_id, amount, note, transaction_date
        FROM transactions WHERE transaction_id=$1`

	var tx domain.Transaction
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tx.ID,
		&tx.CategoryID,
		&tx.UserID,
		&tx.Amount,
		&tx.Note,
		&tx.TransactionDate,
	); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Transaction, error) {
	const query = `
        SELECT transaction_id, category_id, user_id, amount, note, transaction_date
        FROM transactions WHERE category_id=$1
        ORDER BY transaction_date DESC`

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.CategoryID,
			&tx.UserID,
			&tx.Amount,
			&tx.Note,
			&tx.TransactionDate,
		); err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	return result, rows.Err()
}
