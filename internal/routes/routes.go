package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/arnold/okrs-api/internal/handlers"
	"github.com/arnold/okrs-api/internal/middleware"
)

func Setup(app *fiber.App, h *handlers.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	protected := api.Group("/", middleware.Protected(h.JWTSecret()))

	protected.Get("/me/objectives", h.GetMyObjectives)
	protected.Get("/me/profile", h.GetMyProfile)
	protected.Put("/me/profile", h.UpdateMyProfile)

	protected.Get("/profiles", h.ListProfiles)
	protected.Put("/profiles/:id/role", h.UpdateUserRole)

	protected.Get("/organisation", h.GetOrganisation)
	protected.Put("/organisation", h.UpdateOrganisation)
	protected.Post("/organisations", h.CreateOrganisation)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.GetNotifications)
	notifications.Put("/:id/read", h.MarkNotificationRead)
	notifications.Post("/read-all", h.MarkAllRead)

	// Device token for push notifications
	protected.Post("/device-token", h.RegisterDeviceToken)

	objectives := protected.Group("/objectives")
	objectives.Get("/", h.ListObjectives)
	objectives.Post("/", h.CreateObjective)
	objectives.Get("/:id", h.GetObjective)
	objectives.Put("/:id", h.UpdateObjective)
	objectives.Delete("/:id", h.DeleteObjective)
	objectives.Post("/:id/recalculate", h.RecalculateObjective)
	objectives.Get("/:id/key-results", h.ListKeyResults)
	objectives.Post("/:id/key-results", h.CreateKeyResult)

	keyResults := protected.Group("/key-results")
	keyResults.Get("/:id", h.GetKeyResult)
	keyResults.Put("/:id", h.UpdateKeyResult)
	keyResults.Delete("/:id", h.DeleteKeyResult)
	keyResults.Get("/:id/check-ins", h.ListCheckIns)
	keyResults.Post("/:id/check-ins", h.CreateCheckIn)
	keyResults.Put("/:id/assignment", h.SetAssignment)
	keyResults.Get("/:id/assignment/me", h.IsAssignedToMe)
	// Legacy single assignee
	keyResults.Put("/:id/assignee", h.AssignKeyResult)

	cycles := protected.Group("/cycles")
	cycles.Get("/", h.ListCycles)
	cycles.Post("/", h.CreateCycle)
	cycles.Get("/active", h.GetActiveCycle)
	cycles.Get("/:id", h.GetCycle)
	cycles.Put("/:id", h.UpdateCycle)
	cycles.Post("/:id/activate", h.ActivateCycle)
	cycles.Post("/:id/close", h.CloseCycle)
	cycles.Post("/:id/carry-forward", h.CarryForward)
	cycles.Post("/:id/recalculate", h.RecalculateCycle)
	cycles.Get("/:id/health", h.GetCycleHealth)

	teams := protected.Group("/teams")
	teams.Get("/", h.ListTeams)
	teams.Post("/", h.CreateTeam)
	teams.Get("/:id", h.GetTeam)
	teams.Put("/:id", h.UpdateTeam)
	teams.Delete("/:id", h.DeleteTeam)
	teams.Put("/:id/lead", h.AssignTeamLead)
	teams.Get("/:id/members", h.ListTeamMembers)
	teams.Post("/:id/members", h.AddTeamMember)
	teams.Delete("/:id/members/:userId", h.RemoveTeamMember)
	teams.Get("/:id/health", h.GetTeamHealth)

	// WebSocket for live objective score updates
	app.Get("/ws/objectives/:id", h.WebSocketUpgrade(), h.WatchObjective, websocket.New(h.HandleWebSocket))
}
