package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/api/dto"
	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/service"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// UsersHandler exposes the public auth endpoints. Both bypass the auth
// middleware entirely.
type UsersHandler struct {
	users  *service.UserService
	tokens *auth.TokenManager
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, tokens *auth.TokenManager) *UsersHandler {
	return &UsersHandler{users: userService, tokens: tokens}
}

// Register handles POST /api/users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("firstName, lastName, email, password required", nil)
	}

	user, err := h.users.RegisterUser(c.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		return err
	}

	token, _, err := h.tokens.Issue(user.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(http.StatusOK).JSON(dto.TokenResponse{Token: token})
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, err := h.users.ValidateUser(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, _, err := h.tokens.Issue(user.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.TokenResponse{Token: token})
}
