package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager-api/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose bookkeeping table.
const MigrationTableName = "schema_migrations"

// MigrationCommands lists the commands Migrate accepts.
var MigrationCommands = []string{"up", "down", "reset", "status", "version"}

// slogGooseLogger adapts goose's logger interface to slog.
// Fatalf logs at error level without exiting; failures surface as returned errors.
type slogGooseLogger struct {
	log *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}

// Migrate runs a goose command against db using the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "migrations"), slog.String("command", command))

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(&slogGooseLogger{log: log})
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, ".")
	case "down":
		err = goose.DownContext(ctx, db, ".")
	case "reset":
		err = goose.ResetContext(ctx, db, ".")
	case "status":
		err = goose.StatusContext(ctx, db, ".")
	case "version":
		err = goose.VersionContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migration command: %s (expected one of %v)", command, MigrationCommands)
	}
	if err != nil {
		log.Error("migration command failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	log.Info("migration command executed successfully")
	return nil
}
