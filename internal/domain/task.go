package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskUpdatableFields lists the only keys a task update may carry.
var TaskUpdatableFields = []string{"description", "completed"}

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     uuid.UUID `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask creates a Task for ownerID. The owner always comes from the
// authenticated caller, never from request input.
func NewTask(ownerID uuid.UUID, description string, completed bool) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Description: strings.TrimSpace(description),
		Completed:   completed,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.OwnerID == uuid.Nil {
		return NewValidationError("owner", "cannot be empty", ErrInvalidID)
	}
	if t.Description == "" {
		return NewValidationError("description", "is required", ErrEmptyContent)
	}
	return nil
}

// TaskPatch is an allow-listed task update.
type TaskPatch struct {
	Description *string
	Completed   *bool
}

// ParseTaskPatch decodes a raw JSON object into a TaskPatch, rejecting any
// key outside TaskUpdatableFields before a single field is decoded.
func ParseTaskPatch(raw map[string]json.RawMessage) (*TaskPatch, error) {
	if err := CheckAllowedFields(raw, TaskUpdatableFields...); err != nil {
		return nil, err
	}

	patch := &TaskPatch{}
	if value, ok := raw["description"]; ok {
		patch.Description = new(string)
		if err := json.Unmarshal(value, patch.Description); err != nil {
			return nil, NewValidationError("description", "has an invalid type", ErrInvalidUpdate)
		}
	}
	if value, ok := raw["completed"]; ok {
		patch.Completed = new(bool)
		if err := json.Unmarshal(value, patch.Completed); err != nil {
			return nil, NewValidationError("completed", "has an invalid type", ErrInvalidUpdate)
		}
	}
	return patch, nil
}

// Apply writes the patch onto t and re-validates it.
func (p *TaskPatch) Apply(t *Task) error {
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	return t.Validate()
}
