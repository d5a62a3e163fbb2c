package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/arnold/okrs-api/internal/middleware"
	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/services"
)

func (h *Handler) ListCycles(c *fiber.Ctx) error {
	cycles, err := h.cycles.ListCycles(c.UserContext(), middleware.GetOrganisationID(c))
	if err != nil {
		return h.fail(c, err, "Cycles not found")
	}
	return c.JSON(cycles)
}

// GetActiveCycle answers null when no cycle is active.
func (h *Handler) GetActiveCycle(c *fiber.Ctx) error {
	cycle, err := h.cycles.GetActiveCycle(c.UserContext(), middleware.GetOrganisationID(c))
	if err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	return c.JSON(cycle)
}

func (h *Handler) CreateCycle(c *fiber.Ctx) error {
	var req models.CreateCycleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	cycle, err := h.cycles.CreateCycle(c.UserContext(), middleware.GetOrganisationID(c), req)
	if err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	return c.Status(fiber.StatusCreated).JSON(cycle)
}

func (h *Handler) GetCycle(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cycle ID")
	}
	cycle, err := h.loadCycle(c, id)
	if err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	return c.JSON(cycle)
}

func (h *Handler) UpdateCycle(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cycle ID")
	}
	if _, err := h.loadCycle(c, id); err != nil {
		return h.fail(c, err, "Cycle not found")
	}

	var req models.UpdateCycleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	cycle, err := h.cycles.UpdateCycle(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	return c.JSON(cycle)
}

func (h *Handler) ActivateCycle(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cycle ID")
	}
	if _, err := h.loadCycle(c, id); err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	cycle, err := h.cycles.SetActiveCycle(c.UserContext(), middleware.GetOrganisationID(c), id)
	if err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	return c.JSON(cycle)
}

func (h *Handler) CloseCycle(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cycle ID")
	}
	if _, err := h.loadCycle(c, id); err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	cycle, err := h.cycles.CloseCycle(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	return c.JSON(cycle)
}

// CarryForward copies the unfinished objectives of a cycle into another.
func (h *Handler) CarryForward(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cycle ID")
	}
	if _, err := h.loadCycle(c, id); err != nil {
		return h.fail(c, err, "Cycle not found")
	}

	var req models.CarryForwardRequest
	if err := c.BodyParser(&req); err != nil || req.ToCycleID == uuid.Nil {
		return badRequest(c, "Target cycle is required")
	}

	carried, err := h.cycles.CarryForward(c.UserContext(), middleware.GetOrganisationID(c), id, req.ToCycleID)
	if err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	return c.Status(fiber.StatusCreated).JSON(carried)
}

func (h *Handler) GetCycleHealth(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cycle ID")
	}
	if _, err := h.loadCycle(c, id); err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	summary, err := h.okrs.CycleHealth(c.UserContext(), middleware.GetOrganisationID(c), id)
	if err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	return c.JSON(summary)
}

// RecalculateCycle recomputes every objective score in the cycle and lists
// the ones that were stale.
func (h *Handler) RecalculateCycle(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid cycle ID")
	}
	if _, err := h.loadCycle(c, id); err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	repairs, err := h.okrs.RecalculateCycle(c.UserContext(), middleware.GetOrganisationID(c), id)
	if err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	if repairs == nil {
		repairs = []services.ScoreRepair{}
	}
	return c.JSON(fiber.Map{"repaired": repairs})
}
