package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/arnold/okrs-api/internal/middleware"
	"github.com/arnold/okrs-api/internal/models"
)

func (h *Handler) ListTeams(c *fiber.Ctx) error {
	teams, err := h.teams.ListTeams(c.UserContext(), middleware.GetOrganisationID(c))
	if err != nil {
		return h.fail(c, err, "Teams not found")
	}
	return c.JSON(teams)
}

func (h *Handler) CreateTeam(c *fiber.Ctx) error {
	var req models.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	team, err := h.teams.CreateTeam(c.UserContext(), middleware.GetOrganisationID(c), req)
	if err != nil {
		return h.fail(c, err, "Team not found")
	}
	return c.Status(fiber.StatusCreated).JSON(team)
}

func (h *Handler) GetTeam(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	team, err := h.loadTeam(c, id)
	if err != nil {
		return h.fail(c, err, "Team not found")
	}
	return c.JSON(team)
}

func (h *Handler) UpdateTeam(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	if _, err := h.loadTeam(c, id); err != nil {
		return h.fail(c, err, "Team not found")
	}

	var req models.UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	team, err := h.teams.UpdateTeam(c.UserContext(), id, req)
	if err != nil {
		return h.fail(c, err, "Team not found")
	}
	return c.JSON(team)
}

func (h *Handler) DeleteTeam(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	if _, err := h.loadTeam(c, id); err != nil {
		return h.fail(c, err, "Team not found")
	}
	if err := h.teams.DeleteTeam(c.UserContext(), id); err != nil {
		return h.fail(c, err, "Team not found")
	}
	return c.JSON(fiber.Map{"message": "Team deleted"})
}

func (h *Handler) AssignTeamLead(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	if _, err := h.loadTeam(c, id); err != nil {
		return h.fail(c, err, "Team not found")
	}

	var req models.AssignTeamLeadRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return badRequest(c, "User is required")
	}
	team, err := h.teams.AssignTeamLead(c.UserContext(), id, req.UserID)
	if err != nil {
		return h.fail(c, err, "User not found")
	}
	return c.JSON(team)
}

func (h *Handler) ListTeamMembers(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	if _, err := h.loadTeam(c, id); err != nil {
		return h.fail(c, err, "Team not found")
	}
	members, err := h.teams.ListMembers(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Team not found")
	}
	return c.JSON(members)
}

func (h *Handler) AddTeamMember(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	if _, err := h.loadTeam(c, id); err != nil {
		return h.fail(c, err, "Team not found")
	}

	var req models.AddTeamMemberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return badRequest(c, "User is required")
	}
	membership, err := h.teams.AddMember(c.UserContext(), id, req.UserID)
	if err != nil {
		return h.fail(c, err, "Team not found")
	}
	return c.Status(fiber.StatusCreated).JSON(membership)
}

func (h *Handler) RemoveTeamMember(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	if _, err := h.loadTeam(c, id); err != nil {
		return h.fail(c, err, "Team not found")
	}
	if err := h.teams.RemoveMember(c.UserContext(), id, userID); err != nil {
		return h.fail(c, err, "Member not found")
	}
	return c.JSON(fiber.Map{"message": "Member removed"})
}

// GetTeamHealth summarises a team's objectives, optionally within one cycle.
func (h *Handler) GetTeamHealth(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	cycleID, ok := queryUUID(c, "cycleId")
	if !ok {
		return badRequest(c, "Invalid cycle ID")
	}
	if _, err := h.loadTeam(c, id); err != nil {
		return h.fail(c, err, "Team not found")
	}
	summary, err := h.okrs.TeamHealth(c.UserContext(), middleware.GetOrganisationID(c), id, cycleID)
	if err != nil {
		return h.fail(c, err, "Team not found")
	}
	return c.JSON(summary)
}
