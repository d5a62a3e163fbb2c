package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/okrs-api/internal/middleware"
)

// GetNotifications returns paginated notifications for the current user
func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	result, err := h.inbox.List(c.UserContext(), middleware.GetUserID(c), page, limit)
	if err != nil {
		return h.fail(c, err, "Notifications not found")
	}
	return c.JSON(result)
}

// MarkNotificationRead marks a single notification as read
func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid notification ID")
	}
	if err := h.inbox.MarkRead(c.UserContext(), id, middleware.GetUserID(c)); err != nil {
		return h.fail(c, err, "Notification not found")
	}
	return c.JSON(fiber.Map{"success": true})
}

// MarkAllRead marks all notifications as read for the current user
func (h *Handler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.inbox.MarkAllRead(c.UserContext(), middleware.GetUserID(c)); err != nil {
		return h.fail(c, err, "Notifications not found")
	}
	return c.JSON(fiber.Map{"success": true})
}
