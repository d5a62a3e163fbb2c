package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/arnold/okrs-api/internal/middleware"
	"github.com/arnold/okrs-api/internal/models"
)

func queryUUID(c *fiber.Ctx, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func (h *Handler) ListObjectives(c *fiber.Ctx) error {
	filters := models.ObjectiveFilters{
		Type:   models.ObjectiveType(c.Query("type")),
		Status: models.ObjectiveStatus(c.Query("status")),
	}
	var ok bool
	if filters.CycleID, ok = queryUUID(c, "cycleId"); !ok {
		return badRequest(c, "Invalid cycle ID")
	}
	if filters.TeamID, ok = queryUUID(c, "teamId"); !ok {
		return badRequest(c, "Invalid team ID")
	}
	if filters.OwnerID, ok = queryUUID(c, "ownerId"); !ok {
		return badRequest(c, "Invalid owner ID")
	}
	if filters.Type != "" && !filters.Type.Valid() {
		return badRequest(c, "Invalid objective type")
	}
	if filters.Status != "" && !filters.Status.Valid() {
		return badRequest(c, "Invalid objective status")
	}

	objectives, err := h.okrs.ListObjectives(c.UserContext(), middleware.GetOrganisationID(c), filters)
	if err != nil {
		return h.fail(c, err, "Objectives not found")
	}
	return c.JSON(objectives)
}

func (h *Handler) CreateObjective(c *fiber.Ctx) error {
	var req models.CreateObjectiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.CycleID == uuid.Nil {
		return badRequest(c, "Cycle is required")
	}
	if _, err := h.loadCycle(c, req.CycleID); err != nil {
		return h.fail(c, err, "Cycle not found")
	}
	if req.TeamID != nil {
		if _, err := h.loadTeam(c, *req.TeamID); err != nil {
			return h.fail(c, err, "Team not found")
		}
	}

	objective, err := h.okrs.CreateObjective(c.UserContext(), middleware.GetOrganisationID(c), req)
	if err != nil {
		return h.fail(c, err, "Objective not found")
	}
	return c.Status(fiber.StatusCreated).JSON(objective)
}

func (h *Handler) GetObjective(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid objective ID")
	}
	objective, err := h.loadObjective(c, id)
	if err != nil {
		return h.fail(c, err, "Objective not found")
	}
	return c.JSON(objective)
}

func (h *Handler) UpdateObjective(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid objective ID")
	}
	if _, err := h.loadObjective(c, id); err != nil {
		return h.fail(c, err, "Objective not found")
	}

	var req models.UpdateObjectiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	objective, err := h.okrs.UpdateObjective(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err, "Objective not found")
	}
	return c.JSON(objective)
}

func (h *Handler) DeleteObjective(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid objective ID")
	}
	if _, err := h.loadObjective(c, id); err != nil {
		return h.fail(c, err, "Objective not found")
	}
	if err := h.okrs.DeleteObjective(c.UserContext(), id); err != nil {
		return h.fail(c, err, "Objective not found")
	}
	return c.JSON(fiber.Map{"message": "Objective deleted"})
}

// RecalculateObjective repairs a stale objective score.
func (h *Handler) RecalculateObjective(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid objective ID")
	}
	if _, err := h.loadObjective(c, id); err != nil {
		return h.fail(c, err, "Objective not found")
	}
	score, err := h.okrs.RecalculateObjectiveScore(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Objective not found")
	}
	return c.JSON(fiber.Map{"objectiveId": id, "score": score})
}

// GetMyObjectives defaults to the active cycle when no cycleId is given.
// Without an active cycle the list is empty.
func (h *Handler) GetMyObjectives(c *fiber.Ctx) error {
	orgID := middleware.GetOrganisationID(c)
	cycleID, ok := queryUUID(c, "cycleId")
	if !ok {
		return badRequest(c, "Invalid cycle ID")
	}
	if cycleID == nil {
		active, err := h.cycles.GetActiveCycle(c.UserContext(), orgID)
		if err != nil {
			return h.fail(c, err, "Cycle not found")
		}
		if active == nil {
			return c.JSON([]models.Objective{})
		}
		cycleID = &active.ID
	}

	objectives, err := h.okrs.ObjectivesForUser(c.UserContext(), orgID, middleware.GetUserID(c), *cycleID)
	if err != nil {
		return h.fail(c, err, "Objectives not found")
	}
	return c.JSON(objectives)
}
