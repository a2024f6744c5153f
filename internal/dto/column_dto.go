package dto

import (
	"time"

	"github.com/google/uuid"

	"kanban-board-api/internal/domain"
)

// CreateColumnRequest is the payload for adding a column to a board
type CreateColumnRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}

// UpdateColumnRequest renames a column and/or moves it to a new index.
// Omitted fields are left unchanged.
type UpdateColumnRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=120"`
	Position *int    `json:"position" binding:"omitempty,gte=0"`
}

// ReorderColumnsRequest replaces the column order of a board.
// ColumnIDs must be a permutation of the board's current column ids.
type ReorderColumnsRequest struct {
	ColumnIDs []uuid.UUID `json:"columnIds" binding:"required,min=1"`
}

// ColumnResponse is the representation of a column
type ColumnResponse struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"boardId"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToColumnResponse converts a domain column to its response form
func ToColumnResponse(c *domain.Column) ColumnResponse {
	return ColumnResponse{
		ID:        c.ID,
		BoardID:   c.BoardID,
		Name:      c.Name,
		Position:  c.Position,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToColumnResponses converts a slice of domain columns
func ToColumnResponses(columns []domain.Column) []ColumnResponse {
	out := make([]ColumnResponse, 0, len(columns))
	for i := range columns {
		out = append(out, ToColumnResponse(&columns[i]))
	}
	return out
}
