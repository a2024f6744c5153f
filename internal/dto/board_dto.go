package dto

import (
	"time"

	"github.com/google/uuid"

	"kanban-board-api/internal/domain"
)

// CreateBoardRequest is the payload for creating a board
type CreateBoardRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}

// BoardResponse is the summary representation of a board
type BoardResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BoardDetailResponse is a board with its full ordered contents
type BoardDetailResponse struct {
	BoardResponse
	Columns []ColumnResponse `json:"columns"`
	Tasks   []TaskResponse   `json:"tasks"`
}

// BoardRoleResponse reports the caller's relationship to a board
type BoardRoleResponse struct {
	BoardID uuid.UUID `json:"boardId"`
	Role    string    `json:"role"`
}

// ToBoardResponse converts a domain board to its response form
func ToBoardResponse(b *domain.Board) BoardResponse {
	return BoardResponse{
		ID:        b.ID,
		Name:      b.Name,
		OwnerID:   b.OwnerID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToBoardResponses converts a slice of domain boards
func ToBoardResponses(boards []domain.Board) []BoardResponse {
	out := make([]BoardResponse, 0, len(boards))
	for i := range boards {
		out = append(out, ToBoardResponse(&boards[i]))
	}
	return out
}
