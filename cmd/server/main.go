// Package main implements the entry point for the task manager API server,
// which serves user accounts, bearer sessions, avatars and per-user tasks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/platform/postgres"
	"github.com/phrazzld/task-manager-api/internal/platform/sentry"
)

func main() {
	migrate := flag.String("migrate", "", fmt.Sprintf("run a migration command %v and exit", postgres.MigrationCommands))
	flag.Parse()

	if err := run(context.Background(), *migrate); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// run loads configuration and either executes a single migration command or
// starts the HTTP server until it is asked to stop.
func run(ctx context.Context, migrateCommand string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("auto_migrate", cfg.Database.AutoMigrate))

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", slog.Any("error", err))
		}
	}()

	if migrateCommand != "" {
		return postgres.Migrate(ctx, db, migrateCommand, log)
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, "up", log); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	reporter, err := sentry.New(cfg.Sentry, log)
	if err != nil {
		return fmt.Errorf("failed to initialize error reporting: %w", err)
	}

	app, err := newApplication(cfg, log, db, reporter)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
