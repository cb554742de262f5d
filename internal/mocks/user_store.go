package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// MockUserStore implements store.UserStore on top of Memory.
type MockUserStore struct {
	mem *Memory

	// Error injection; a non-nil value is returned instead of running the method.
	CreateErr     error
	GetByEmailErr error
	GetByTokenErr error
	UpdateErr     error
	AddTokenErr   error
	DeleteErr     error
	SetAvatarErr  error
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a user store over mem.
func NewMockUserStore(mem *Memory) *MockUserStore {
	return &MockUserStore{mem: mem}
}

// Put stores u directly, bypassing validation. Useful for seeding tests.
func (m *MockUserStore) Put(u *domain.User) {
	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	m.mem.users[u.ID] = copyUser(u)
}

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if user.HashedPassword == "" {
		return domain.ErrInvalidPassword
	}

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	if m.emailTaken(user.Email, uuid.Nil) {
		return store.ErrEmailExists
	}
	m.mem.users[user.ID] = copyUser(user)
	return nil
}

// GetByID implements store.UserStore. Avatar bytes are not returned.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	u, ok := m.mem.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return withoutAvatar(u), nil
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailErr != nil {
		return nil, m.GetByEmailErr
	}
	email = domain.NormalizeEmail(email)

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	for _, u := range m.mem.users {
		if domain.NormalizeEmail(u.Email) == email {
			return withoutAvatar(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByToken implements store.UserStore.
func (m *MockUserStore) GetByToken(ctx context.Context, id uuid.UUID, token string) (*domain.User, error) {
	if m.GetByTokenErr != nil {
		return nil, m.GetByTokenErr
	}

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	u, ok := m.mem.users[id]
	if !ok || !u.HasToken(token) {
		return nil, store.ErrUserNotFound
	}
	return withoutAvatar(u), nil
}

// Update implements store.UserStore. Tokens and avatar are left untouched.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	existing, ok := m.mem.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if m.emailTaken(user.Email, user.ID) {
		return store.ErrEmailExists
	}
	updated := copyUser(user)
	updated.Password = ""
	updated.Tokens = existing.Tokens
	updated.Avatar = existing.Avatar
	m.mem.users[user.ID] = updated
	return nil
}

// AddToken implements store.UserStore.
func (m *MockUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	if m.AddTokenErr != nil {
		return m.AddTokenErr
	}

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	u, ok := m.mem.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Tokens = append(u.Tokens, token)
	return nil
}

// RemoveToken implements store.UserStore.
func (m *MockUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	u, ok := m.mem.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	remaining := make([]string, 0, len(u.Tokens))
	for _, t := range u.Tokens {
		if t != token {
			remaining = append(remaining, t)
		}
	}
	u.Tokens = remaining
	return nil
}

// ClearTokens implements store.UserStore.
func (m *MockUserStore) ClearTokens(ctx context.Context, userID uuid.UUID) error {
	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	u, ok := m.mem.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Tokens = []string{}
	return nil
}

// SetAvatar implements store.UserStore.
func (m *MockUserStore) SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error {
	if m.SetAvatarErr != nil {
		return m.SetAvatarErr
	}

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	u, ok := m.mem.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	if avatar == nil {
		u.Avatar = nil
		return nil
	}
	u.Avatar = append([]byte(nil), avatar...)
	return nil
}

// GetAvatar implements store.UserStore.
func (m *MockUserStore) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	u, ok := m.mem.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	if len(u.Avatar) == 0 {
		return nil, store.ErrAvatarNotFound
	}
	return append([]byte(nil), u.Avatar...), nil
}

// Delete implements store.UserStore. Like the tasks.owner_id foreign key it
// refuses to remove a user who still owns tasks.
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mem.mu.Lock()
	defer m.mem.mu.Unlock()
	if _, ok := m.mem.users[id]; !ok {
		return store.ErrUserNotFound
	}
	if m.mem.ownsTasks(id) {
		return store.ErrInvalidEntity
	}
	delete(m.mem.users, id)
	return nil
}

// WithTx implements store.UserStore. The transaction is ignored.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// emailTaken must be called with the lock held.
func (m *MockUserStore) emailTaken(email string, except uuid.UUID) bool {
	email = domain.NormalizeEmail(email)
	for id, u := range m.mem.users {
		if id != except && domain.NormalizeEmail(u.Email) == email {
			return true
		}
	}
	return false
}

func withoutAvatar(u *domain.User) *domain.User {
	c := copyUser(u)
	c.Avatar = nil
	return c
}
