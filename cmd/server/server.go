package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const (
	readHeaderTimeout  = 10 * time.Second
	sentryFlushTimeout = 2 * time.Second
)

// startHTTPServer serves handler until ctx is cancelled, SIGINT/SIGTERM is
// received or the listener fails, then drains in-flight requests.
func (app *application) startHTTPServer(ctx context.Context, handler http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", slog.Int("port", app.config.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			app.logger.Error("server failed", slog.Any("error", err))
			app.cleanup()
			return err
		}
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	}

	timeout := time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", slog.Any("error", err))
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.cleanup()
	app.logger.Info("server shutdown completed")
	return nil
}
