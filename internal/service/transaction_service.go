package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/events"
	"github.com/spec-kit/expense-tracker/internal/repository"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// TransactionInput describes a transaction create/update payload.
type TransactionInput struct {
	Amount          float64
	Note            string
	TransactionDate int64
}

const maxTransactionNoteLength = 50

// normalize trims the note and bounds-checks it against the column width.
func (in TransactionInput) normalize() (TransactionInput, error) {
	in.Note = strings.TrimSpace(in.Note)
	if len(in.Note) > maxTransactionNoteLength {
		return in, apperrors.NewValidationError("note must not exceed 50 characters", nil)
	}
	return in, nil
}

// TransactionService coordinates transaction workflows. The parent category's
// ownership is guarded before any transaction is touched, then the
// transaction's own owner and category are checked.
type TransactionService struct {
	transactions repository.TransactionRepository
	categories   repository.CategoryRepository
	dispatcher   events.Dispatcher
}

// NewTransactionService constructs the service. The dispatcher may be nil.
func NewTransactionService(transactions repository.TransactionRepository, categories repository.CategoryRepository, dispatcher events.Dispatcher) *TransactionService {
	return &TransactionService{transactions: transactions, categories: categories, dispatcher: dispatcher}
}

// FetchAllTransactions lists the transactions of one of the user's categories.
func (s *TransactionService) FetchAllTransactions(ctx context.Context, userID, categoryID int64) ([]domain.Transaction, error) {
	if err := s.guardCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	result, err := s.transactions.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// FetchTransactionByID returns a single transaction after both guards.
func (s *TransactionService) FetchTransactionByID(ctx context.Context, userID, categoryID, transactionID int64) (*domain.Transaction, error) {
	if err := s.guardCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	return s.getForOwner(ctx, userID, categoryID, transactionID)
}

// AddTransaction records an expense in one of the user's categories.
func (s *TransactionService) AddTransaction(ctx context.Context, userID, categoryID int64, input TransactionInput) (*domain.Transaction, error) {
	if err := s.guardCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		CategoryID:      categoryID,
		UserID:          userID,
		Amount:          input.Amount,
		Note:            input.Note,
		TransactionDate: input.TransactionDate,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:   events.EventTransactionRecorded,
		UserID: userID,
		Payload: events.TransactionRecordedPayload{
			TransactionID: tx.ID,
			CategoryID:    categoryID,
			Amount:        tx.Amount,
		},
	})
	return tx, nil
}

// UpdateTransaction replaces amount, note and date after both guards.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, categoryID, transactionID int64, input TransactionInput) (*domain.Transaction, error) {
	if err := s.guardCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	tx, err := s.getForOwner(ctx, userID, categoryID, transactionID)
	if err != nil {
		return nil, err
	}
	input, err = input.normalize()
	if err != nil {
		return nil, err
	}

	tx.Amount = input.Amount
	tx.Note = input.Note
	tx.TransactionDate = input.TransactionDate
	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tx, nil
}

// RemoveTransaction deletes a transaction after both guards.
func (s *TransactionService) RemoveTransaction(ctx context.Context, userID, categoryID, transactionID int64) error {
	if err := s.guardCategory(ctx, userID, categoryID); err != nil {
		return err
	}
	if _, err := s.getForOwner(ctx, userID, categoryID, transactionID); err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, transactionID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// guardCategory verifies the parent category belongs to the acting user.
// Mismatch and absence are indistinguishable to the caller.
func (s *TransactionService) guardCategory(ctx context.Context, userID, categoryID int64) error {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", nil)
		}
		return apperrors.MapError(err)
	}
	if category.UserID != userID {
		return apperrors.NewNotFound("category", nil)
	}
	return nil
}

func (s *TransactionService) getForOwner(ctx context.Context, userID, categoryID, transactionID int64) (*domain.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("transaction", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if tx.UserID != userID || tx.CategoryID != categoryID {
		return nil, apperrors.NewNotFound("transaction", nil)
	}
	return tx, nil
}

func (s *TransactionService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
