package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"kanban-board-api/internal/domain"
)

// CreateTaskRequest is the payload for adding a task to a column.
// Position is optional; when omitted the task is appended to the column.
type CreateTaskRequest struct {
	ColumnID    uuid.UUID `json:"columnId" binding:"required"`
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Description string    `json:"description" binding:"omitempty,max=4000"`
	Labels      []string  `json:"labels" binding:"omitempty,max=20,dive,min=1,max=40"`
	Position    *int      `json:"position" binding:"omitempty,gte=0"`
}

// UpdateTaskRequest edits task content and/or moves the task.
// Omitted fields are left unchanged. Setting ColumnID without Position
// appends the task to the end of the target column.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=4000"`
	Labels      *[]string  `json:"labels" binding:"omitempty,max=20,dive,min=1,max=40"`
	ColumnID    *uuid.UUID `json:"columnId" binding:"omitempty"`
	Position    *int       `json:"position" binding:"omitempty,gte=0"`
}

// HasMove reports whether the request moves the task at all
func (r *UpdateTaskRequest) HasMove() bool {
	return r.ColumnID != nil || r.Position != nil
}

// TaskResponse is the representation of a task
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	BoardID     uuid.UUID `json:"boardId"`
	ColumnID    uuid.UUID `json:"columnId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Labels      []string  `json:"labels"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToTaskResponse converts a domain task to its response form
func ToTaskResponse(t *domain.Task) TaskResponse {
	labels := []string{}
	if len(t.Labels) > 0 {
		// Stored as a JSON array; a corrupt value decodes to empty
		_ = json.Unmarshal(t.Labels, &labels)
	}
	return TaskResponse{
		ID:          t.ID,
		BoardID:     t.BoardID,
		ColumnID:    t.ColumnID,
		Title:       t.Title,
		Description: t.Description,
		Labels:      labels,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTaskResponses converts a slice of domain tasks
func ToTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, ToTaskResponse(&tasks[i]))
	}
	return out
}
