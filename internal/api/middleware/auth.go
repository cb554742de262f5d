package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/redact"
	"github.com/phrazzld/task-manager-api/internal/service"
)

// Authenticator resolves the user owning a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware rejects requests that do not carry a live session token.
type AuthMiddleware struct {
	users Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(users Authenticator) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// BearerToken extracts the token from an Authorization header value: the
// scheme is stripped and surrounding whitespace trimmed.
func BearerToken(header string) string {
	token := strings.TrimSpace(header)
	token = strings.TrimPrefix(token, "Bearer")
	return strings.TrimSpace(token)
}

// Authenticate verifies the bearer token and that it is still in its owner's
// session list, then stores the user and the token in the request context.
// Every failure gets the same 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r.Header.Get("Authorization"))

		user, err := m.users.Authenticate(r.Context(), token)
		if err != nil {
			logger.FromContext(r.Context()).Debug("authentication failed",
				slog.String("path", r.URL.Path),
				slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
			return
		}

		ctx := shared.WithAuthenticatedUser(r.Context(), user, token)
		log := logger.FromContext(ctx).With(slog.String("user_id", user.ID.String()))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
