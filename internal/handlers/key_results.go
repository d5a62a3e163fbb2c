package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/okrs-api/internal/models"
)

func (h *Handler) ListKeyResults(c *fiber.Ctx) error {
	objectiveID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid objective ID")
	}
	if _, err := h.loadObjective(c, objectiveID); err != nil {
		return h.fail(c, err, "Objective not found")
	}
	krs, err := h.okrs.ListKeyResults(c.UserContext(), objectiveID)
	if err != nil {
		return h.fail(c, err, "Objective not found")
	}
	return c.JSON(krs)
}

func (h *Handler) CreateKeyResult(c *fiber.Ctx) error {
	objectiveID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid objective ID")
	}
	if _, err := h.loadObjective(c, objectiveID); err != nil {
		return h.fail(c, err, "Objective not found")
	}

	var req models.CreateKeyResultRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	kr, err := h.okrs.CreateKeyResult(c.UserContext(), objectiveID, req)
	if err != nil {
		return h.fail(c, err, "Objective not found")
	}
	h.broadcastKeyResult(c, EventKeyResultCreated, kr)
	return c.Status(fiber.StatusCreated).JSON(kr)
}

func (h *Handler) GetKeyResult(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid key result ID")
	}
	kr, err := h.loadKeyResult(c, id)
	if err != nil {
		return h.fail(c, err, "Key result not found")
	}
	return c.JSON(kr)
}

func (h *Handler) UpdateKeyResult(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid key result ID")
	}
	if _, err := h.loadKeyResult(c, id); err != nil {
		return h.fail(c, err, "Key result not found")
	}

	var req models.UpdateKeyResultRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	kr, err := h.okrs.UpdateKeyResult(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err, "Key result not found")
	}
	h.broadcastKeyResult(c, EventKeyResultUpdated, kr)
	return c.JSON(kr)
}

func (h *Handler) DeleteKeyResult(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid key result ID")
	}
	if _, err := h.loadKeyResult(c, id); err != nil {
		return h.fail(c, err, "Key result not found")
	}

	kr, err := h.okrs.DeleteKeyResult(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Key result not found")
	}
	h.broadcastKeyResult(c, EventKeyResultDeleted, kr)
	return c.JSON(fiber.Map{"message": "Key result deleted"})
}
