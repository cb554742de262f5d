package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		want  slog.Level
		valid bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := logger.ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.valid, ok, tt.in)
	}
}

func TestNew(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	log := logger.New(&buf, "warn")

	log.Info("hidden")
	log.Warn("shown", slog.String("component", "test"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.Same(t, log, slog.Default())
}

func TestNewInvalidLevelWarns(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	log := logger.New(&buf, "chatty")
	log.Debug("hidden")

	assert.Contains(t, buf.String(), "invalid log level configured")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	scoped := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	ctx := context.Background()
	assert.Same(t, fallback, logger.FromContextOrDefault(ctx, fallback))

	ctx = logger.WithLogger(ctx, scoped)
	assert.Same(t, scoped, logger.FromContextOrDefault(ctx, fallback))
	assert.Same(t, scoped, logger.FromContext(ctx))
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, logger.TraceID(context.Background()))
	ctx := logger.WithTraceID(context.Background(), "abc123")
	assert.Equal(t, "abc123", logger.TraceID(ctx))
}
