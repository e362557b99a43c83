package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/api/dto"
	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/service"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// CategoriesHandler manages per-user category endpoints.
type CategoriesHandler struct {
	service *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{service: categoryService}
}

// GetAllCategories GET /api/categories.
func (h *CategoriesHandler) GetAllCategories(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}

	categories, err := h.service.FetchAllCategories(c.Context(), userID)
	if err != nil {
		return err
	}

	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResponse(&categories[i]))
	}
	return c.JSON(items)
}

// GetCategoryByID GET /api/categories/:categoryId.
func (h *CategoriesHandler) GetCategoryByID(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}
	categoryID, err := parseID(c.Params("categoryId"), "category")
	if err != nil {
		return err
	}

	category, err := h.service.FetchCategoryByID(c.Context(), userID, categoryID)
	if err != nil {
		return err
	}
	return c.JSON(categoryResponse(category))
}

// AddCategory POST /api/categories.
func (h *CategoriesHandler) AddCategory(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.service.AddCategory(c.Context(), userID, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(categoryResponse(category))
}

// UpdateCategory PUT /api/categories/:categoryId.
func (h *CategoriesHandler) UpdateCategory(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}
	categoryID, err := parseID(c.Params("categoryId"), "category")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.service.UpdateCategory(c.Context(), userID, categoryID, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(categoryResponse(category))
}

// DeleteCategory DELETE /api/categories/:categoryId.
func (h *CategoriesHandler) DeleteCategory(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}
	categoryID, err := parseID(c.Params("categoryId"), "category")
	if err != nil {
		return err
	}

	if err := h.service.RemoveCategory(c.Context(), userID, categoryID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		CategoryID:   category.ID,
		UserID:       category.UserID,
		Title:        category.Title,
		Description:  category.Description,
		TotalExpense: category.TotalExpense,
	}
}

func parseID(raw, resource string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+resource+" id", nil)
	}
	return id, nil
}
