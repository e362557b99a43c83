package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/service"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

// ActivityHandler exposes the caller's recent activity feed.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: activityService}
}

// Recent GET /api/activity.
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return apperrors.NewForbidden("authentication required")
	}

	entries, err := h.service.Recent(c.Context(), userID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(entries)
}
