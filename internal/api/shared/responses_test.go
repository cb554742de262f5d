package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]interface{}{"message": "success", "data": 123})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"success","data":123}`, w.Body.String())
}

func TestRespondWithMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
	w := httptest.NewRecorder()

	RespondWithMessage(w, req, http.StatusOK, "user logged out successfully")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"user logged out successfully"}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	ctx := SetTraceID(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/tasks/1", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "task not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "task not found", resp.Error)
	assert.Equal(t, GetTraceID(ctx), resp.TraceID)
	assert.Zero(t, resp.Code, "code is not serialized")
}

func captureLogs(t *testing.T) (*bytes.Buffer, context.Context) {
	t.Helper()
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return &buf, logger.WithLogger(context.Background(), log)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{"server error", http.StatusInternalServerError, nil, "ERROR"},
		{"client error", http.StatusBadRequest, nil, "DEBUG"},
		{"elevated client error", http.StatusUnauthorized, []ResponseOption{WithElevatedLogLevel()}, "WARN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf, ctx := captureLogs(t)
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil).WithContext(ctx)
			w := httptest.NewRecorder()
			secretErr := errors.New("dial postgres://app:s3cret@db:5432/tasks failed")

			RespondWithErrorAndLog(w, req, tc.status, "an unexpected error occurred", secretErr, tc.opts...)

			assert.Equal(t, tc.status, w.Code)
			assert.NotContains(t, w.Body.String(), "postgres", "raw error must not reach the client")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tc.wantLevel, entry["level"])
			assert.Equal(t, "API error response", entry["msg"])
			assert.NotContains(t, entry["error"], "s3cret")
			assert.EqualValues(t, tc.status, entry["status_code"])
		})
	}
}
