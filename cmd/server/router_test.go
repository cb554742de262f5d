package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/platform/sentry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 3000, LogLevel: "error", ShutdownTimeoutSeconds: 1},
		Database: config.DatabaseConfig{URL: "postgres://localhost/test", MaxOpenConns: 1},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", BCryptCost: 4},
	}
}

func newTestApplication(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.New(io.Discard, "error")
	reporter, err := sentry.New(config.SentryConfig{}, log)
	require.NoError(t, err)

	app, err := newApplication(testConfig(), log, db, reporter)
	require.NoError(t, err)
	return app, mock
}

func TestNewApplicationRequiresJWTSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = ""

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = newApplication(cfg, logger.New(io.Discard, "error"), db, nil)
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantMsg    string
	}{
		{name: "database reachable", wantStatus: http.StatusOK, wantMsg: "ok"},
		{
			name:       "database down",
			pingErr:    errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "database unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, mock := newTestApplication(t)
			mock.ExpectPing().WillReturnError(tt.pingErr)

			rec := httptest.NewRecorder()
			app.setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body shared.MessageResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRouterProtectsRoutes(t *testing.T) {
	app, mock := newTestApplication(t)
	router := app.setupRouter()

	for _, path := range []string{"/tasks", "/users/me"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"), path)
	}
	// Rejected before any query reaches the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouterUnknownRoute(t *testing.T) {
	app, _ := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
