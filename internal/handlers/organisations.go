package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/okrs-api/internal/middleware"
	"github.com/arnold/okrs-api/internal/models"
)

func (h *Handler) GetOrganisation(c *fiber.Ctx) error {
	org, err := h.orgs.GetOrganisation(c.UserContext(), middleware.GetOrganisationID(c))
	if err != nil {
		return h.fail(c, err, "Organisation not found")
	}
	return c.JSON(org)
}

// CreateOrganisation makes the caller the admin of a new organisation. The
// caller needs a fresh token to act inside it.
func (h *Handler) CreateOrganisation(c *fiber.Ctx) error {
	var req models.OrganisationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	org, err := h.orgs.CreateOrganisation(c.UserContext(), middleware.GetUserID(c), req)
	if err != nil {
		return h.fail(c, err, "Profile not found")
	}
	return c.Status(fiber.StatusCreated).JSON(org)
}

func (h *Handler) UpdateOrganisation(c *fiber.Ctx) error {
	var req models.OrganisationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	ctx, orgID := c.UserContext(), middleware.GetOrganisationID(c)
	if err := h.profiles.RequireAdmin(ctx, middleware.GetUserID(c), orgID); err != nil {
		return h.fail(c, err, "Organisation not found")
	}
	org, err := h.orgs.UpdateOrganisation(ctx, orgID, req)
	if err != nil {
		return h.fail(c, err, "Organisation not found")
	}
	return c.JSON(org)
}
