package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/okrs-api/internal/middleware"
	"github.com/arnold/okrs-api/internal/models"
)

// CreateCheckIn records progress on a key result. The response carries the
// new check-in and the key result's updated snapshot.
func (h *Handler) CreateCheckIn(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid key result ID")
	}
	if _, err := h.loadKeyResult(c, id); err != nil {
		return h.fail(c, err, "Key result not found")
	}

	var req models.CreateCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.okrs.CreateCheckIn(c.UserContext(), id, middleware.GetUserID(c), req)
	if err != nil {
		return h.fail(c, err, "Key result not found")
	}
	h.broadcastKeyResult(c, EventCheckInCreated, result.KeyResult)
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *Handler) ListCheckIns(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid key result ID")
	}
	if _, err := h.loadKeyResult(c, id); err != nil {
		return h.fail(c, err, "Key result not found")
	}
	checkIns, err := h.okrs.ListCheckIns(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Key result not found")
	}
	return c.JSON(checkIns)
}
