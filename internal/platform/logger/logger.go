package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/task-manager-api/internal/config"
)

// Setup builds the application's JSON logger at the level named in cfg,
// installs it as the slog default and returns it.
func Setup(cfg config.ServerConfig) *slog.Logger {
	return New(os.Stdout, cfg.LogLevel)
}

// New creates a JSON logger writing to out and installs it as the slog default.
// An unknown level falls back to info with a warning.
func New(out io.Writer, logLevel string) *slog.Logger {
	level, ok := ParseLevel(logLevel)

	log := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if !ok {
		log.Warn("invalid log level configured, using default level",
			slog.String("configured_level", logLevel),
			slog.String("default_level", "info"))
	}
	return log
}

// ParseLevel maps a case-insensitive level name to a slog.Level.
// It reports false and returns slog.LevelInfo for unknown names.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
