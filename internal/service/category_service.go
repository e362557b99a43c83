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

const (
	maxCategoryTitleLength       = 30
	maxCategoryDescriptionLength = 50
)

// normalizeCategoryInput trims and bounds-checks title and description against
// the column widths, so an over-long value fails validation instead of
// surfacing as a storage error.
func normalizeCategoryInput(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", apperrors.NewValidationError("title must not be empty", nil)
	}
	if len(title) > maxCategoryTitleLength {
		return "", "", apperrors.NewValidationError("title must not exceed 30 characters", nil)
	}
	description = strings.TrimSpace(description)
	if len(description) > maxCategoryDescriptionLength {
		return "", "", apperrors.NewValidationError("description must not exceed 50 characters", nil)
	}
	return title, description, nil
}

// CategoryService coordinates category workflows. Every operation keyed by a
// category id runs through the ownership guard first.
type CategoryService struct {
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
}

// NewCategoryService constructs the service. The dispatcher may be nil.
func NewCategoryService(categories repository.CategoryRepository, dispatcher events.Dispatcher) *CategoryService {
	return &CategoryService{categories: categories, dispatcher: dispatcher}
}

// FetchAllCategories lists the user's categories.
func (s *CategoryService) FetchAllCategories(ctx context.Context, userID int64) ([]domain.Category, error) {
	result, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// FetchCategoryByID returns a single category after the ownership check.
func (s *CategoryService) FetchCategoryByID(ctx context.Context, userID, categoryID int64) (*domain.Category, error) {
	return s.getForOwner(ctx, userID, categoryID)
}

// AddCategory creates a category owned by the acting user.
func (s *CategoryService) AddCategory(ctx context.Context, userID int64, title, description string) (*domain.Category, error) {
	title, description, err := normalizeCategoryInput(title, description)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:   events.EventCategoryCreated,
		UserID: userID,
		Payload: events.CategoryCreatedPayload{
			CategoryID: category.ID,
			Title:      category.Title,
		},
	})
	return category, nil
}

// UpdateCategory replaces title and description after the ownership check.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID int64, title, description string) (*domain.Category, error) {
	category, err := s.getForOwner(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	title, description, err = normalizeCategoryInput(title, description)
	if err != nil {
		return nil, err
	}

	category.Title = title
	category.Description = description
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// RemoveCategory deletes the category and its transactions after the
// ownership check.
func (s *CategoryService) RemoveCategory(ctx context.Context, userID, categoryID int64) error {
	if _, err := s.getForOwner(ctx, userID, categoryID); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, categoryID); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:   events.EventCategoryDeleted,
		UserID: userID,
		Payload: events.CategoryDeletedPayload{
			CategoryID: categoryID,
		},
	})
	return nil
}

// getForOwner fetches the category and compares its owner against the acting
// user. A mismatch is reported exactly like a missing row so non-owners learn
// nothing about the resource's existence.
func (s *CategoryService) getForOwner(ctx context.Context, userID, categoryID int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if category.UserID != userID {
		return nil, apperrors.NewNotFound("category", nil)
	}
	return category, nil
}

func (s *CategoryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
