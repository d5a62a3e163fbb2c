package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnold/okrs-api/internal/middleware"
	"github.com/arnold/okrs-api/internal/models"
)

// ListProfiles returns the people of the caller's organisation
func (h *Handler) ListProfiles(c *fiber.Ctx) error {
	profiles, err := h.profiles.ListOrganisationProfiles(c.UserContext(), middleware.GetOrganisationID(c))
	if err != nil {
		return h.fail(c, err, "Profiles not found")
	}
	return c.JSON(profiles)
}

func (h *Handler) GetMyProfile(c *fiber.Ctx) error {
	profile, err := h.profiles.GetProfile(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return h.fail(c, err, "Profile not found")
	}
	return c.JSON(profile)
}

func (h *Handler) UpdateMyProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	profile, err := h.profiles.UpdateProfile(c.UserContext(), middleware.GetUserID(c), req)
	if err != nil {
		return h.fail(c, err, "Profile not found")
	}
	return c.JSON(profile)
}

// UpdateUserRole changes a member's role. Admins only.
func (h *Handler) UpdateUserRole(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}
	var req models.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.profiles.UpdateUserRole(c.UserContext(),
		middleware.GetUserID(c), middleware.GetOrganisationID(c), id, req.Role)
	if err != nil {
		return h.fail(c, err, "Profile not found")
	}
	return c.JSON(profile)
}
