package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arnold/okrs-api/internal/middleware"
)

// RegisterDeviceToken saves the FCM token for push notifications
func (h *Handler) RegisterDeviceToken(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return badRequest(c, "Token is required")
	}

	if err := h.push.RegisterDeviceToken(c.UserContext(), middleware.GetUserID(c), req.Token); err != nil {
		return h.fail(c, err, "Profile not found")
	}
	return c.JSON(fiber.Map{"success": true})
}
