package mocks

import (
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// Memory is the shared backing data of the in-memory stores.
type Memory struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	tasks map[uuid.UUID]*domain.Task
	// order records task insertion so List can mimic creation order.
	order []uuid.UUID
}

// NewMemory returns empty backing data.
func NewMemory() *Memory {
	return &Memory{
		users: make(map[uuid.UUID]*domain.User),
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

type memorySnapshot struct {
	users map[uuid.UUID]*domain.User
	tasks map[uuid.UUID]*domain.Task
	order []uuid.UUID
}

func (m *Memory) snapshot() memorySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := memorySnapshot{
		users: make(map[uuid.UUID]*domain.User, len(m.users)),
		tasks: make(map[uuid.UUID]*domain.Task, len(m.tasks)),
		order: append([]uuid.UUID(nil), m.order...),
	}
	for id, u := range m.users {
		snap.users[id] = copyUser(u)
	}
	for id, t := range m.tasks {
		snap.tasks[id] = copyTask(t)
	}
	return snap
}

func (m *Memory) restore(snap memorySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = snap.users
	m.tasks = snap.tasks
	m.order = snap.order
}

// UserCount returns the number of stored users.
func (m *Memory) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// TaskCount returns the number of stored tasks.
func (m *Memory) TaskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *Memory) ownsTasks(userID uuid.UUID) bool {
	for _, t := range m.tasks {
		if t.OwnerID == userID {
			return true
		}
	}
	return false
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Tokens = append([]string{}, u.Tokens...)
	if u.Avatar != nil {
		c.Avatar = append([]byte(nil), u.Avatar...)
	}
	return &c
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	return &c
}
