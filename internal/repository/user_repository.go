package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/domain"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

const uniqueViolationCode = "23505"

// UserRepository defines persistence access for accounts. Implementations
// never leak storage-engine errors: every failure surfaces as a domain-level
// authentication error.
type UserRepository interface {
	Create(ctx context.Context, firstName, lastName, email, password string) (int64, error)
	CountByEmail(ctx context.Context, email string) (int, error)
	FindByEmailAndPassword(ctx context.Context, email, password string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

type userRepository struct {
	pool       *pgxpool.Pool
	bcryptCost int
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool, bcryptCost int) UserRepository {
	return &userRepository{pool: pool, bcryptCost: bcryptCost}
}

// Create hashes the password and inserts the account with a normalized email.
// The unique index on LOWER(email) is the final arbiter for concurrent
// registrations; its violation maps to the same email-in-use error the
// service's pre-check produces.
func (r *userRepository) Create(ctx context.Context, firstName, lastName, email, password string) (int64, error) {
	hash, err := auth.HashPassword(password, r.bcryptCost)
	if err != nil {
		return 0, apperrors.NewAuthError("invalid details, failed to create account")
	}

	const query = `
        INSERT INTO users (first_name, last_name, email, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING user_id`

	var id int64
	if err := r.pool.QueryRow(ctx, query,
		firstName,
		lastName,
		strings.ToLower(email),
		hash,
	).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return 0, apperrors.NewAuthError("email already in use")
		}
		return 0, apperrors.NewAuthError("invalid details, failed to create account")
	}
	return id, nil
}

// CountByEmail returns the number of accounts matching the email, case
// insensitively. Used as a pre-check; see Create for the closing constraint.
func (r *userRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE email = LOWER($1)`

	var count int
	if err := r.pool.QueryRow(ctx, query, email).Scan(&count); err != nil {
		return 0, apperrors.NewAuthError("failed to check email")
	}
	return count, nil
}

// FindByEmailAndPassword looks up by normalized email and compares the bcrypt
// hash. A missing row and a failed comparison produce the same error.
func (r *userRepository) FindByEmailAndPassword(ctx context.Context, email, password string) (*domain.User, error) {
	const query = `
        SELECT user_id, first_name, last_name, email, password_hash, created_at
        FROM users WHERE email = LOWER($1)`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	); err != nil {
		return nil, apperrors.NewAuthError("invalid email/password")
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewAuthError("invalid email/password")
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT user_id, first_name, last_name, email, password_hash, created_at
        FROM users WHERE user_id = $1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAuthError("user not found")
		}
		return nil, apperrors.NewAuthError("failed to fetch user")
	}
	return &user, nil
}
