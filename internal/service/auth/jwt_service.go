package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService signs and verifies session tokens.
type JWTService interface {
	// GenerateToken creates a signed token embedding userID.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies the signature (and expiry, when present) of
	// tokenString and extracts its claims. It does not consult any user's
	// token list; that is the caller's job.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	Subject  string    `json:"sub,omitempty"`
	IssuedAt time.Time `json:"iat,omitempty"`
	// ExpiresAt is zero for tokens that never expire.
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
