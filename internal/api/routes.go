package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the user and task endpoints on r. requireAuth guards
// every route except signup, login and the public avatar fetch.
func RegisterRoutes(
	r chi.Router,
	users *UserHandler,
	tasks *TaskHandler,
	requireAuth func(http.Handler) http.Handler,
) {
	r.Post("/users", users.Signup)
	r.Post("/users/login", users.Login)
	r.Get("/users/{id}/avatar", users.GetAvatar)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/users/logout", users.Logout)
		r.Post("/users/logoutAll", users.LogoutAll)
		r.Get("/users/me", users.Me)
		r.Patch("/users/me", users.Update)
		r.Delete("/users/me", users.Delete)
		r.Post("/users/me/avatar", users.UploadAvatar)
		r.Delete("/users/me/avatar", users.DeleteAvatar)

		r.Post("/tasks", tasks.Create)
		r.Get("/tasks", tasks.List)
		r.Get("/tasks/{id}", tasks.Get)
		r.Patch("/tasks/{id}", tasks.Update)
		r.Delete("/tasks/{id}", tasks.Delete)
	})
}
