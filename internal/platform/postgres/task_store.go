package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

const taskColumns = `id, description, completed, owner_id, created_at, updated_at`

// sortColumns maps client sort fields to SQL columns. Anything else is ignored.
var sortColumns = map[string]string{
	store.SortFieldCreatedAt:   "created_at",
	store.SortFieldUpdatedAt:   "updated_at",
	store.SortFieldDescription: "description",
	store.SortFieldCompleted:   "completed",
}

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, description, completed, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, task.Description, task.Completed, task.OwnerID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save task",
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save task to database: %w", MapError(err))
	}
	return nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	query store.TaskQuery,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlText, args := buildListQuery(ownerID, query)
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// buildListQuery renders the listing SQL. Sort columns come only from
// sortColumns, so no client text reaches the statement.
func buildListQuery(ownerID uuid.UUID, q store.TaskQuery) (string, []any) {
	var b strings.Builder
	args := []any{ownerID}

	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)

	if q.Completed != nil {
		args = append(args, *q.Completed)
		fmt.Fprintf(&b, ` AND completed = $%d`, len(args))
	}

	b.WriteString(` ORDER BY `)
	if col, ok := sortColumns[q.SortBy]; ok {
		dir := "ASC"
		if q.SortDir == store.SortDesc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, `%s %s, `, col, dir)
	}
	b.WriteString(`created_at ASC, id ASC`)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&b, ` LIMIT $%d`, len(args))
	}
	if q.Skip > 0 {
		args = append(args, q.Skip)
		fmt.Fprintf(&b, ` OFFSET $%d`, len(args))
	}

	return b.String(), args
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	var t domain.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&t.ID, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}
	return &t, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET description = $1, completed = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5`,
		task.Description, task.Completed, task.UpdatedAt, task.ID, task.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteByOwner implements store.TaskStore.DeleteByOwner
func (s *PostgresTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		log.Error("failed to delete owner's tasks",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to delete tasks for owner: %w", MapError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	log.Debug("deleted owner's tasks",
		slog.String("owner_id", ownerID.String()),
		slog.Int64("count", n))
	return n, nil
}
