package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/middleware"
	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/services"
	"github.com/arnold/okrs-api/internal/store"
)

// Handler holds the services behind the HTTP routes.
type Handler struct {
	okrs      *services.OKRService
	cycles    *services.CycleService
	teams     *services.TeamService
	profiles  *services.ProfileService
	orgs      *services.OrganisationService
	inbox     *services.NotificationService
	push      *services.PushService
	hub       *Hub
	jwtSecret string
	logger    *zap.Logger
}

// Services groups the dependencies of Handler.
type Services struct {
	OKRs          *services.OKRService
	Cycles        *services.CycleService
	Teams         *services.TeamService
	Profiles      *services.ProfileService
	Organisations *services.OrganisationService
	Notifications *services.NotificationService
	Push          *services.PushService
}

func New(svc Services, hub *Hub, jwtSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		okrs:      svc.OKRs,
		cycles:    svc.Cycles,
		teams:     svc.Teams,
		profiles:  svc.Profiles,
		orgs:      svc.Organisations,
		inbox:     svc.Notifications,
		push:      svc.Push,
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    logger.Named("http"),
	}
}

func (h *Handler) JWTSecret() string {
	return h.jwtSecret
}

// fail maps a service error to a status code and a readable message.
func (h *Handler) fail(c *fiber.Ctx, err error, notFound string) error {
	status, msg := fiber.StatusInternalServerError, "Internal server error"
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, msg = fiber.StatusNotFound, notFound
	case errors.Is(err, services.ErrTeamAssignmentNotAllowed):
		status, msg = fiber.StatusConflict, "Only key results of a team objective can be assigned to the team"
	case errors.Is(err, services.ErrForbidden):
		status, msg = fiber.StatusForbidden, "Admin role required"
	case errors.Is(err, services.ErrInvalidAssignmentType),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidObjective),
		errors.Is(err, services.ErrInvalidCycle),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrNotOrganisationMember):
		status, msg = fiber.StatusBadRequest, err.Error()
	default:
		h.logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(param))
	return id, err == nil
}

// loadObjective returns the objective when it belongs to the caller's
// organisation; other organisations' objectives read as not found.
func (h *Handler) loadObjective(c *fiber.Ctx, id uuid.UUID) (*models.Objective, error) {
	objective, err := h.okrs.GetObjective(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if objective.OrganisationID != middleware.GetOrganisationID(c) {
		return nil, store.ErrNotFound
	}
	return objective, nil
}

func (h *Handler) loadKeyResult(c *fiber.Ctx, id uuid.UUID) (*models.KeyResult, error) {
	kr, err := h.okrs.GetKeyResult(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if _, err := h.loadObjective(c, kr.ObjectiveID); err != nil {
		return nil, err
	}
	return kr, nil
}

func (h *Handler) loadCycle(c *fiber.Ctx, id uuid.UUID) (*models.Cycle, error) {
	cycle, err := h.cycles.GetCycle(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if cycle.OrganisationID != middleware.GetOrganisationID(c) {
		return nil, store.ErrNotFound
	}
	return cycle, nil
}

func (h *Handler) loadTeam(c *fiber.Ctx, id uuid.UUID) (*models.Team, error) {
	team, err := h.teams.GetTeam(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if team.OrganisationID != middleware.GetOrganisationID(c) {
		return nil, store.ErrNotFound
	}
	return team, nil
}

// broadcastKeyResult pushes a key result event and the parent objective's
// fresh score to clients watching the objective.
func (h *Handler) broadcastKeyResult(c *fiber.Ctx, eventType string, kr *models.KeyResult) {
	if h.hub == nil || kr == nil {
		return
	}
	userID := middleware.GetUserID(c)
	h.hub.Broadcast(kr.ObjectiveID, userID, WSEvent{
		Type:        eventType,
		ObjectiveID: kr.ObjectiveID.String(),
		UserID:      userID.String(),
		Data:        kr,
	})

	objective, err := h.okrs.GetObjective(c.UserContext(), kr.ObjectiveID)
	if err != nil {
		return
	}
	h.hub.Broadcast(kr.ObjectiveID, uuid.Nil, WSEvent{
		Type:        EventObjectiveScore,
		ObjectiveID: objective.ID.String(),
		UserID:      userID.String(),
		Data:        fiber.Map{"score": objective.Score},
	})
}
