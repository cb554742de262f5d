package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// UserContextKey is the context key for the authenticated *domain.User
	UserContextKey ContextKey = "user"

	// TokenContextKey is the context key for the raw bearer token of the request
	TokenContextKey ContextKey = "token"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters
)

// WithAuthenticatedUser stores the authenticated user and the token it
// presented in ctx.
func WithAuthenticatedUser(ctx context.Context, user *domain.User, token string) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, user)
	return context.WithValue(ctx, TokenContextKey, token)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok && user != nil
}

// TokenFromContext returns the bearer token the request authenticated with.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenContextKey).(string)
	return token, ok && token != ""
}

// SetTraceID adds a fresh trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return logger.WithTraceID(ctx, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	return logger.TraceID(ctx)
}

// generateTraceID creates a random 32-character hex trace ID. If crypto/rand
// fails it falls back to a time-based ID, never a static value.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	n, err := rand.Read(b)

	if err != nil || n != TraceIDLength {
		slog.Error("failed to generate secure random trace ID",
			"error", err,
			"bytes_read", n,
			"bytes_requested", TraceIDLength,
			"fallback", "time-based generation")
		return generateFallbackTraceID()
	}

	return hex.EncodeToString(b)
}

func generateFallbackTraceID() string {
	fallbackID := make([]byte, TraceIDLength)
	now := time.Now()
	binary.BigEndian.PutUint64(fallbackID[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint32(fallbackID[8:12], uint32(now.Nanosecond()))
	binary.BigEndian.PutUint32(fallbackID[12:16], uint32(now.Unix()))
	return hex.EncodeToString(fallbackID)
}
