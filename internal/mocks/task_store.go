package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// MockTaskStore implements store.TaskStore on top of Memory.
type MockTaskStore struct {
	mem *Memory

	CreateErr        error
	ListErr          error
	UpdateErr        error
	DeleteByOwnerErr error
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a task store over mem.
func NewMockTaskStore(mem *Memory) *MockTaskStore {
	return &MockTaskStore{mem: mem}
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	if _, ok := m.mem.users[task.OwnerID]; !ok {
		return store.ErrInvalidEntity
	}
	if _, ok := m.mem.tasks[task.ID]; ok {
		return store.ErrDuplicate
	}
	m.mem.tasks[task.ID] = copyTask(task)
	m.mem.order = append(m.mem.order, task.ID)
	return nil
}

// List implements store.TaskStore with the same ordering rules as the SQL
// store: the requested field first, then creation order.
func (m *MockTaskStore) List(ctx context.Context, ownerID uuid.UUID, q store.TaskQuery) ([]*domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()

	result := []*domain.Task{}
	for _, id := range m.mem.order {
		t, ok := m.mem.tasks[id]
		if !ok || t.OwnerID != ownerID {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		result = append(result, copyTask(t))
	}

	if cmp := taskComparator(q.SortBy); cmp != nil {
		sort.SliceStable(result, func(i, j int) bool {
			c := cmp(result[i], result[j])
			if q.SortDir == store.SortDesc {
				c = -c
			}
			return c < 0
		})
	}

	skip := q.Skip
	if skip < 0 {
		skip = 0
	}
	if skip >= len(result) {
		return []*domain.Task{}, nil
	}
	result = result[skip:]
	if q.Limit > 0 && q.Limit < len(result) {
		result = result[:q.Limit]
	}
	return result, nil
}

func taskComparator(field string) func(a, b *domain.Task) int {
	switch field {
	case store.SortFieldCreatedAt:
		return func(a, b *domain.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case store.SortFieldUpdatedAt:
		return func(a, b *domain.Task) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case store.SortFieldDescription:
		return func(a, b *domain.Task) int { return strings.Compare(a.Description, b.Description) }
	case store.SortFieldCompleted:
		return func(a, b *domain.Task) int {
			switch {
			case a.Completed == b.Completed:
				return 0
			case !a.Completed:
				return -1
			default:
				return 1
			}
		}
	}
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	t, ok := m.mem.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(t), nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	existing, ok := m.mem.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	existing.Description = task.Description
	existing.Completed = task.Completed
	existing.UpdatedAt = task.UpdatedAt
	return nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	t, ok := m.mem.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.mem.tasks, id)
	return nil
}

// DeleteByOwner implements store.TaskStore.
func (m *MockTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	if m.DeleteByOwnerErr != nil {
		return 0, m.DeleteByOwnerErr
	}

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	var n int64
	for id, t := range m.mem.tasks {
		if t.OwnerID == ownerID {
			delete(m.mem.tasks, id)
			n++
		}
	}
	return n, nil
}

// WithTx implements store.TaskStore. The transaction is ignored.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
