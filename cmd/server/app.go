package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/avatar"
	"github.com/phrazzld/task-manager-api/internal/platform/postgres"
	"github.com/phrazzld/task-manager-api/internal/platform/sentry"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// application holds the shared dependencies of the server so they can be
// built once and released together on shutdown.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	reporter *sentry.Reporter

	userService service.UserService
	taskService service.TaskService
}

// newApplication wires stores, auth and services on top of an established
// database connection.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	reporter *sentry.Reporter,
) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		reporter: reporter,
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	app.userService, err = service.NewUserService(service.UserServiceDeps{
		Users:      userStore,
		Tasks:      taskStore,
		Transactor: store.NewDBTransactor(db),
		Tokens:     jwtService,
		Hasher:     auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		Avatars:    avatar.NewProcessor(),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup flushes buffered error reports. The database is closed by the caller
// that opened it.
func (app *application) cleanup() {
	if app.reporter.Enabled() {
		app.reporter.Flush(sentryFlushTimeout)
	}
	app.logger.Info("application shutdown completed")
}
