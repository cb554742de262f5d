package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/avatar"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors; foreign-owned resources land here too
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrInvalidRequest),
		errors.Is(err, avatar.ErrUnsupportedType),
		errors.Is(err, avatar.ErrTooLarge),
		errors.Is(err, avatar.ErrInvalidImage),
		errors.Is(err, avatar.ErrMissingFile):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "an unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		// One message for every cause.
		return service.ErrUnauthenticated.Error()

	case errors.Is(err, service.ErrInvalidCredentials):
		return service.ErrInvalidCredentials.Error()

	case errors.Is(err, store.ErrTaskNotFound):
		return "task not found"
	case errors.Is(err, store.ErrAvatarNotFound):
		return "unable to fetch requested user's profile pic"
	case errors.Is(err, store.ErrUserNotFound):
		return "user not found"
	case errors.Is(err, store.ErrNotFound):
		return "resource not found"

	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, domain.ErrValidation):
		return "validation failed"

	case errors.Is(err, store.ErrEmailExists):
		return "email is already in use"
	case errors.Is(err, store.ErrDuplicate):
		return "resource already exists"
	case errors.Is(err, store.ErrInvalidEntity):
		return "invalid entity data"
	case errors.Is(err, shared.ErrInvalidRequest):
		return shared.ErrInvalidRequest.Error()

	case errors.Is(err, avatar.ErrUnsupportedType):
		return avatar.ErrUnsupportedType.Error()
	case errors.Is(err, avatar.ErrTooLarge):
		return avatar.ErrTooLarge.Error()
	case errors.Is(err, avatar.ErrInvalidImage):
		return avatar.ErrInvalidImage.Error()
	case errors.Is(err, avatar.ErrMissingFile):
		return avatar.ErrMissingFile.Error()

	default:
		return "an unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted details. A non-empty message replaces the safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
