package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))

	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.ErrorIs(t, h.Compare(hash, "wrong horse"), ErrPasswordMismatch)

	err = h.Compare("not-a-bcrypt-hash", "correct horse")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestBcryptHasher_SaltsEveryHash(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	a, err := h.Hash("same input")
	require.NoError(t, err)
	b, err := h.Hash("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewBcryptHasher_CostBounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 8, NewBcryptHasher(8).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(1).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
}
