package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/okrs-api/internal/middleware"
	"github.com/arnold/okrs-api/internal/models"
)

// SetAssignment switches a key result to one of the four assignment modes.
func (h *Handler) SetAssignment(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid key result ID")
	}
	if _, err := h.loadKeyResult(c, id); err != nil {
		return h.fail(c, err, "Key result not found")
	}

	var req models.SetAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	kr, err := h.okrs.SetAssignment(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err, "Key result not found")
	}
	h.broadcastKeyResult(c, EventAssignmentChanged, kr)
	return c.JSON(kr)
}

// AssignKeyResult is the legacy single-assignee endpoint. A null userId
// unassigns.
func (h *Handler) AssignKeyResult(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid key result ID")
	}
	if _, err := h.loadKeyResult(c, id); err != nil {
		return h.fail(c, err, "Key result not found")
	}

	var req models.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	kr, err := h.okrs.AssignKeyResult(c.UserContext(), id, req.UserID)
	if err != nil {
		return h.fail(c, err, "Key result not found")
	}
	h.broadcastKeyResult(c, EventAssignmentChanged, kr)
	return c.JSON(kr)
}

// IsAssignedToMe reports whether the caller is assigned to the key result.
func (h *Handler) IsAssignedToMe(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid key result ID")
	}
	if _, err := h.loadKeyResult(c, id); err != nil {
		return h.fail(c, err, "Key result not found")
	}
	assigned, err := h.okrs.IsAssigned(c.UserContext(), id, middleware.GetUserID(c))
	if err != nil {
		return h.fail(c, err, "Key result not found")
	}
	return c.JSON(fiber.Map{"assigned": assigned})
}
