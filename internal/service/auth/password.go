package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes plaintext passwords and compares them against stored hashes.
type PasswordHasher interface {
	// Hash returns a salted one-way hash of password.
	Hash(password string) (string, error)

	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, ErrPasswordMismatch on mismatch.
	Compare(hashedPassword, password string) error
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a BcryptHasher with the given cost. Costs outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements PasswordHasher.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare implements PasswordHasher.
func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}
