package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// authenticatedUser returns the user and token placed in the context by the
// authentication middleware. It writes a 401 and returns false when either
// is missing.
func authenticatedUser(w http.ResponseWriter, r *http.Request) (*domain.User, string, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, service.ErrUnauthenticated, "")
		return nil, "", false
	}
	token, ok := shared.TokenFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, service.ErrUnauthenticated, "")
		return nil, "", false
	}
	return user, token, true
}

// getPathUUID extracts a UUID from the URL path parameters. A malformed id
// is reported as notFound, since no resource can have it.
func getPathUUID(r *http.Request, paramName string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, paramName))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// parseTaskQuery reads completed, sortBy, limit and skip from the query string.
//
//	completed=true        only completed tasks; any other non-empty value means false
//	sortBy=field[:desc]   order by field, ascending unless the suffix is "desc"
//	limit, skip           integers; absent or malformed values are ignored
func parseTaskQuery(r *http.Request) store.TaskQuery {
	values := r.URL.Query()
	var q store.TaskQuery

	if completed := values.Get("completed"); completed != "" {
		c := completed == "true"
		q.Completed = &c
	}

	if sortBy := values.Get("sortBy"); sortBy != "" {
		field, dir, _ := strings.Cut(sortBy, ":")
		q.SortBy = field
		if dir == "desc" {
			q.SortDir = store.SortDesc
		}
	}

	q.Limit = atoiOrZero(values.Get("limit"))
	q.Skip = atoiOrZero(values.Get("skip"))
	return q
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
