package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// SortDirection orders task listings.
type SortDirection int

// Sort directions.
const (
	SortAsc SortDirection = iota
	SortDesc
)

// Sortable task fields, named as clients send them.
const (
	SortFieldCreatedAt   = "createdAt"
	SortFieldUpdatedAt   = "updatedAt"
	SortFieldDescription = "description"
	SortFieldCompleted   = "completed"
)

// TaskQuery filters, orders and paginates a task listing.
type TaskQuery struct {
	// Completed restricts results to tasks with this completion state when set.
	Completed *bool
	// SortBy is one of the SortField constants; empty means creation order.
	SortBy  string
	SortDir SortDirection
	// Limit caps the result count; zero or negative means unbounded.
	Limit int
	// Skip drops this many leading results; negative is treated as zero.
	Skip int
}

// TaskStore defines the interface for task data persistence. Every method
// that addresses a single task is scoped by owner: a task belonging to
// someone else is reported exactly like a missing one.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// List returns the owner's tasks matching query. Returns an empty
	// slice, never nil, when nothing matches.
	List(ctx context.Context, ownerID uuid.UUID, query TaskQuery) ([]*domain.Task, error)

	// GetByID retrieves the task with id owned by ownerID.
	// Returns ErrTaskNotFound if there is no such task.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// Update saves description, completed and updated_at of a task
	// matching both its ID and OwnerID. Returns ErrTaskNotFound otherwise.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task with id owned by ownerID.
	// Returns ErrTaskNotFound if there is no such task.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// DeleteByOwner removes every task of ownerID and reports how many went.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
