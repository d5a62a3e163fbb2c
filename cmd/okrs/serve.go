package main

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/handlers"
	"github.com/arnold/okrs-api/internal/routes"
	"github.com/arnold/okrs-api/internal/services"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			if e.cfg.UsesDefaultSecret() {
				e.logger.Warn("JWT_SECRET is not set, using the development default")
			}

			push := services.NewPushService(cmd.Context(), e.cfg.FCMServiceAccount, e.store, e.logger)
			inbox := services.NewNotificationService(e.store, push, e.logger)
			h := handlers.New(handlers.Services{
				OKRs:          e.okrService(inbox),
				Cycles:        services.NewCycleService(e.store, e.store, e.logger),
				Teams:         services.NewTeamService(e.store, e.store, e.logger),
				Profiles:      services.NewProfileService(e.store, e.logger),
				Organisations: services.NewOrganisationService(e.store, e.logger),
				Notifications: inbox,
				Push:          push,
			}, handlers.NewHub(e.logger), e.cfg.JWTSecret, e.logger)

			app := fiber.New(fiber.Config{
				AppName:      "okrs-api",
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				ErrorHandler: errorHandler(e.logger),
			})
			app.Use(recover.New())
			app.Use(fiberlogger.New())
			app.Use(cors.New())
			routes.Setup(app, h)

			go func() {
				<-cmd.Context().Done()
				e.logger.Info("Shutting down")
				_ = app.ShutdownWithTimeout(5 * time.Second)
			}()

			e.logger.Info("Server starting",
				zap.String("port", e.cfg.Port),
				zap.Bool("atomic_propagation", e.cfg.AtomicPropagation),
				zap.Bool("push_enabled", push.Enabled()))
			return app.Listen(":" + e.cfg.Port)
		},
	}
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("Unhandled request error",
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
