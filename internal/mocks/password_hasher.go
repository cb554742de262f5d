package mocks

import (
	"strings"

	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher with a reversible
// "hashed:" prefix so tests avoid bcrypt's cost.
type MockPasswordHasher struct {
	// HashErr, when set, is returned by Hash.
	HashErr error

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

const hashPrefix = "hashed:"

// Hash implements auth.PasswordHasher.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return hashPrefix + password, nil
}

// Compare implements auth.PasswordHasher.
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if !strings.HasPrefix(hashedPassword, hashPrefix) || hashedPassword[len(hashPrefix):] != password {
		return auth.ErrPasswordMismatch
	}
	return nil
}
