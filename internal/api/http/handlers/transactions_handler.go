package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/api/dto"
	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/domain"
	"github.com/spec-kit/expense-tracker/internal/service"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// TransactionsHandler manages per-category transaction endpoints.
type TransactionsHandler struct {
	service *service.TransactionService
}

// NewTransactionsHandler constructs handler.
func NewTransactionsHandler(transactionService *service.TransactionService) *TransactionsHandler {
	return &TransactionsHandler{service: transactionService}
}

// GetAllTransactions GET /api/categories/:categoryId/transactions.
func (h *TransactionsHandler) GetAllTransactions(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}
	categoryID, err := parseID(c.Params("categoryId"), "category")
	if err != nil {
		return err
	}

	transactions, err := h.service.FetchAllTransactions(c.Context(), userID, categoryID)
	if err != nil {
		return err
	}

	items := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, transactionResponse(&transactions[i]))
	}
	return c.JSON(items)
}

// GetTransactionByID GET /api/categories/:categoryId/transactions/:transactionId.
func (h *TransactionsHandler) GetTransactionByID(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}
	categoryID, err := parseID(c.Params("categoryId"), "category")
	if err != nil {
		return err
	}
	transactionID, err := parseID(c.Params("transactionId"), "transaction")
	if err != nil {
		return err
	}

	tx, err := h.service.FetchTransactionByID(c.Context(), userID, categoryID, transactionID)
	if err != nil {
		return err
	}
	return c.JSON(transactionResponse(tx))
}

// AddTransaction POST /api/categories/:categoryId/transactions.
func (h *TransactionsHandler) AddTransaction(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}
	categoryID, err := parseID(c.Params("categoryId"), "category")
	if err != nil {
		return err
	}
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	tx, err := h.service.AddTransaction(c.Context(), userID, categoryID, service.TransactionInput{
		Amount:          req.Amount,
		Note:            req.Note,
		TransactionDate: req.TransactionDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(transactionResponse(tx))
}

// UpdateTransaction PUT /api/categories/:categoryId/transactions/:transactionId.
func (h *TransactionsHandler) UpdateTransaction(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}
	categoryID, err := parseID(c.Params("categoryId"), "category")
	if err != nil {
		return err
	}
	transactionID, err := parseID(c.Params("transactionId"), "transaction")
	if err != nil {
		return err
	}
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	tx, err := h.service.UpdateTransaction(c.Context(), userID, categoryID, transactionID, service.TransactionInput{
		Amount:          req.Amount,
		Note:            req.Note,
		TransactionDate: req.TransactionDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(transactionResponse(tx))
}

// DeleteTransaction DELETE /api/categories/:categoryId/transactions/:transactionId.
func (h *TransactionsHandler) DeleteTransaction(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}
	categoryID, err := parseID(c.Params("categoryId"), "category")
	if err != nil {
		return err
	}
	transactionID, err := parseID(c.Params("transactionId"), "transaction")
	if err != nil {
		return err
	}

	if err := h.service.RemoveTransaction(c.Context(), userID, categoryID, transactionID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func transactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID:   tx.ID,
		CategoryID:      tx.CategoryID,
		UserID:          tx.UserID,
		Amount:          tx.Amount,
		Note:            tx.Note,
		TransactionDate: tx.TransactionDate,
	}
}
