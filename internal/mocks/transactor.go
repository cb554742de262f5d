package mocks

import (
	"context"

	"github.com/phrazzld/task-manager-api/internal/store"
)

// MockTransactor implements store.Transactor without a database. It passes a
// nil *sql.Tx to fn; the in-memory stores ignore it. When built over a Memory
// it restores the pre-transaction state if fn fails.
type MockTransactor struct {
	mem *Memory

	// Calls counts RunInTransaction invocations.
	Calls int
	// Err, when set, is returned without running fn.
	Err error
}

var _ store.Transactor = (*MockTransactor)(nil)

// NewMockTransactor creates a transactor that rolls back mem on failure.
// mem may be nil.
func NewMockTransactor(mem *Memory) *MockTransactor {
	return &MockTransactor{mem: mem}
}

// RunInTransaction implements store.Transactor.
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	if m.mem == nil {
		return fn(ctx, nil)
	}

	snap := m.mem.snapshot()
	if err := fn(ctx, nil); err != nil {
		m.mem.restore(snap)
		return err
	}
	return nil
}
