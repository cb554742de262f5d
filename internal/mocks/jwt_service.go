package mocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing. Without function
// overrides it issues "token-<userID>-<n>" strings and validates them back,
// so issued tokens are distinct and round-trip without signing.
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	issued int
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	m.issued++
	return fmt.Sprintf("token-%s-%d", userID, m.issued), nil
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}

	rest, ok := strings.CutPrefix(tokenString, "token-")
	if !ok || len(rest) < 36 {
		return nil, auth.ErrInvalidToken
	}
	userID, err := uuid.Parse(rest[:36])
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: userID, Subject: userID.String()}, nil
}
