package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var out bytes.Buffer
	hasher := auth.NewBcryptHasher(4)

	failed := generate(&out, hasher, []string{"secret123", "short", "MyPassWord9"})

	assert.Equal(t, 2, failed)
	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "Password: secret123", lines[0])

	hash := strings.TrimPrefix(lines[1], "Hash: ")
	assert.NoError(t, hasher.Compare(hash, "secret123"))
	assert.Contains(t, out.String(), `Rejected "short"`)
	assert.Contains(t, out.String(), `Rejected "MyPassWord9"`)
}
