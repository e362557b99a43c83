package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

const (
	userIDKey    = "auth_user_id"
	bearerPrefix = "Bearer "
)

// Middleware validates bearer tokens on protected routes and attaches the
// principal's user id to the request context. Registration and login routes
// are mounted outside of it.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs the middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication. Every rejection is a 403 with a message
// body and the downstream handler never runs. The principal comes from the
// verified claims only; the account row is not re-fetched here.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return apperrors.NewForbidden("Authorization token must be provided")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return apperrors.NewForbidden("Authorization token must be Bearer [token]")
	}

	userID, err := m.tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		return apperrors.NewForbidden("invalid/expired token")
	}

	c.Locals(userIDKey, userID)
	return c.Next()
}

// UserIDFromContext retrieves the authenticated user id set by Handle.
func UserIDFromContext(c *fiber.Ctx) (int64, bool) {
	val := c.Locals(userIDKey)
	if val == nil {
		return 0, false
	}
	userID, ok := val.(int64)
	return userID, ok
}
