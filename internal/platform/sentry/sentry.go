// Package sentry wires optional error reporting. With no DSN configured every
// function is a no-op, so callers never branch on whether reporting is on.
package sentry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/phrazzld/task-manager-api/internal/config"
)

// DefaultEnvironment is reported when none is configured.
const DefaultEnvironment = "development"

// Reporter owns the process-wide Sentry client.
type Reporter struct {
	enabled bool
	handler *sentryhttp.Handler
}

// New initialises Sentry from cfg. An empty DSN yields a disabled Reporter.
func New(cfg config.SentryConfig, log *slog.Logger) (*Reporter, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.DSN == "" {
		log.Info("sentry DSN not set, error reporting disabled")
		return &Reporter{}, nil
	}

	env := cfg.Environment
	if env == "" {
		env = DefaultEnvironment
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: env,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	log.Info("sentry error reporting enabled", slog.String("environment", env))
	return &Reporter{
		enabled: true,
		handler: sentryhttp.New(sentryhttp.Options{Repanic: true}),
	}, nil
}

// Enabled reports whether events are being sent.
func (r *Reporter) Enabled() bool {
	return r != nil && r.enabled
}

// Middleware attaches a request-scoped hub to each request context and
// reports panics before re-raising them.
func (r *Reporter) Middleware(next http.Handler) http.Handler {
	if !r.Enabled() {
		return next
	}
	return r.handler.Handle(next)
}

// Flush waits up to timeout for buffered events to be delivered.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return sentry.Flush(timeout)
}

// CaptureRequestError reports err on the hub attached to ctx by Middleware.
// Without such a hub nothing is sent.
func CaptureRequestError(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}
