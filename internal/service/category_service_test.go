package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/service"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

type fakeCategoryRepo struct {
	mu          sync.Mutex
	nextID      int64
	categories  map[int64]*domain.Category
	updateCalls int
	deleteCalls int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*domain.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	category.ID = r.nextID
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category, ok := r.categories[id]; ok {
		copied := *category
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) ListByUser(_ context.Context, userID int64) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Category, 0)
	for _, category := range r.categories {
		if category.UserID == userID {
			result = append(result, *category)
		}
	}
	return result, nil
}

func seedCategory(t *testing.T, repo *fakeCategoryRepo, userID int64, title string) *domain.Category {
	t.Helper()
	category := &domain.Category{UserID: userID, Title: title, Description: "seeded"}
	require.NoError(t, repo.Create(context.Background(), category))
	return category
}

func TestFetchCategoryOwnershipGuard(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := service.NewCategoryService(repo, nil)
	seeded := seedCategory(t, repo, 1, "Food")

	owner, err := svc.FetchCategoryByID(context.Background(), 1, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", owner.Title)

	_, nonOwnerErr := svc.FetchCategoryByID(context.Background(), 2, seeded.ID)
	_, missingErr := svc.FetchCategoryByID(context.Background(), 1, 9999)

	require.Error(t, nonOwnerErr)
	require.Error(t, missingErr)
	// A non-owner and a missing id look exactly the same from outside.
	assert.Equal(t, apperrors.ToDomainError(missingErr).Code, apperrors.ToDomainError(nonOwnerErr).Code)
	assert.Equal(t, apperrors.ToDomainError(missingErr).Message, apperrors.ToDomainError(nonOwnerErr).Message)
	assert.Equal(t, 404, apperrors.ToDomainError(nonOwnerErr).HTTPStatus)
}

func TestUpdateCategoryRejectsLongDescription(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := service.NewCategoryService(repo, nil)
	seeded := seedCategory(t, repo, 1, "Food")

	_, err := svc.UpdateCategory(context.Background(), 1, seeded.ID, "Food", strings.Repeat("d", 51))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdateCategoryDeniedForNonOwner(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := service.NewCategoryService(repo, nil)
	seeded := seedCategory(t, repo, 1, "Food")

	_, err := svc.UpdateCategory(context.Background(), 2, seeded.ID, "Hijacked", "")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
	assert.Zero(t, repo.updateCalls)

	unchanged, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", unchanged.Title)
}

func TestRemoveCategoryDeniedForNonOwner(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := service.NewCategoryService(repo, nil)
	seeded := seedCategory(t, repo, 1, "Food")

	err := svc.RemoveCategory(context.Background(), 2, seeded.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
	assert.Zero(t, repo.deleteCalls)

	require.NoError(t, svc.RemoveCategory(context.Background(), 1, seeded.ID))
	_, err = repo.GetByID(context.Background(), seeded.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestAddCategoryValidation(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := service.NewCategoryService(repo, nil)

	_, err := svc.AddCategory(context.Background(), 1, "   ", "desc")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.AddCategory(context.Background(), 1, strings.Repeat("x", 31), "desc")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	// Over-long description must fail validation rather than reach storage.
	_, err = svc.AddCategory(context.Background(), 1, "Groceries", strings.Repeat("d", 51))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	assert.Empty(t, repo.categories)

	category, err := svc.AddCategory(context.Background(), 1, "Groceries", "weekly shopping")
	require.NoError(t, err)
	assert.Equal(t, int64(1), category.UserID)
	assert.Equal(t, "Groceries", category.Title)
}

func TestFetchAllCategoriesScopedToUser(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := service.NewCategoryService(repo, nil)
	seedCategory(t, repo, 1, "Food")
	seedCategory(t, repo, 1, "Travel")
	seedCategory(t, repo, 2, "Rent")

	mine, err := svc.FetchAllCategories(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, category := range mine {
		assert.Equal(t, int64(1), category.UserID)
	}
}
