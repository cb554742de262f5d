package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-manager-api/internal/api"
	apiMiddleware "github.com/phrazzld/task-manager-api/internal/api/middleware"
	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
)

const healthCheckTimeout = 2 * time.Second

// pinger is the part of *sql.DB the health check needs.
type pinger interface {
	PingContext(ctx context.Context) error
}

// setupRouter creates the router with the standard middleware chain, the
// health endpoint and every API route.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.reporter.Middleware)
	r.Use(apiMiddleware.TraceMiddleware)

	r.Get("/health", healthHandler(app.db, app.logger))

	userHandler := api.NewUserHandler(app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.userService)

	api.RegisterRoutes(r, userHandler, taskHandler, authMiddleware.Authenticate)
	return r
}

// healthHandler reports 200 when the database answers a ping and 503 otherwise.
func healthHandler(db pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.FromContextOrDefault(r.Context(), log).Error("health check failed",
				slog.Any("error", err))
			shared.RespondWithMessage(w, r, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		shared.RespondWithMessage(w, r, http.StatusOK, "ok")
	}
}
