package api

import (
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// SignupRequest defines the payload for POST /users. Format rules for email
// and password are enforced by the domain.
type SignupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Age      int    `json:"age"      validate:"gte=0"`
}

// LoginRequest defines the payload for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
	Token   string            `json:"token"`
}

// UserResponse wraps a redacted user.
type UserResponse struct {
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
}

// CreateTaskRequest defines the payload for POST /tasks. An owner sent by
// the client is ignored.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

// TaskListResponse wraps a task listing.
type TaskListResponse struct {
	Message string         `json:"message"`
	Count   int            `json:"count"`
	Tasks   []*domain.Task `json:"tasks"`
}
