package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// CreateTaskInput carries the client-settable fields of a new task.
type CreateTaskInput struct {
	Description string
	Completed   bool
}

// TaskService manages tasks on behalf of their owner. A task owned by
// someone else is indistinguishable from a missing one.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, query store.TaskQuery) ([]*domain.Task, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	// Update applies an allow-listed patch; any key outside description and
	// completed rejects the whole patch before the task is read.
	Update(ctx context.Context, id, ownerID uuid.UUID, raw map[string]json.RawMessage) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a TaskService backed by tasks.
func NewTaskService(tasks store.TaskStore, log *slog.Logger) (*TaskServiceImpl, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskServiceImpl{
		tasks:  tasks,
		logger: log.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService. The owner is always ownerID, whatever the
// client sent.
func (s *TaskServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, in.Description, in.Completed)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return task, nil
}

// List implements TaskService.
func (s *TaskServiceImpl) List(ctx context.Context, ownerID uuid.UUID, query store.TaskQuery) ([]*domain.Task, error) {
	if query.Skip < 0 {
		query.Skip = 0
	}
	if query.Limit < 0 {
		query.Limit = 0
	}
	tasks, err := s.tasks.List(ctx, ownerID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get implements TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Update implements TaskService.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	id, ownerID uuid.UUID,
	raw map[string]json.RawMessage,
) (*domain.Task, error) {
	patch, err := domain.ParseTaskPatch(raw)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := patch.Apply(task); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete implements TaskService.
func (s *TaskServiceImpl) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("task deleted",
		slog.String("task_id", id.String()),
		slog.String("owner_id", ownerID.String()))
	return nil
}
