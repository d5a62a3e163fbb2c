package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnold/okrs-api/internal/config"
	"github.com/arnold/okrs-api/internal/database"
	"github.com/arnold/okrs-api/internal/logging"
	"github.com/arnold/okrs-api/internal/services"
	"github.com/arnold/okrs-api/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "okrs",
	Short: "OKR scoring and assignment service",
	Long: `okrs tracks objectives, their key results and check-ins.
A key result's score is its progress towards target, capped at 1. An
objective's score is the mean of its key results' scores and is recomputed
after every key result change.`,
	SilenceUsage: true,
}

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(recalculateCmd())
	rootCmd.AddCommand(scoresCmd())
	rootCmd.AddCommand(tokenCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every command needs: configuration, a logger and an open,
// migrated database.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	store  *store.Gorm
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("Failed to connect to database",
			zap.String("database_url", logging.SanitizeDatabaseURL(cfg.DatabaseURL)),
			zap.Error(err))
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	logger.Debug("Database ready", zap.String("database_url", logging.SanitizeDatabaseURL(cfg.DatabaseURL)))

	return &env{cfg: cfg, logger: logger, db: db, store: store.NewGorm(db)}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (e *env) okrService(notifier services.Notifier) *services.OKRService {
	return services.NewOKRService(e.store, e.store, e.logger,
		services.WithAtomicPropagation(e.cfg.AtomicPropagation),
		services.WithNotifier(notifier))
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			fmt.Println("Database schema is up to date")
			return nil
		},
	}
}
