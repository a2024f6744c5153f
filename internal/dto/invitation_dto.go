package dto

import (
	"time"

	"github.com/google/uuid"

	"kanban-board-api/internal/domain"
)

// CreateInvitationRequest invites a user to a board
type CreateInvitationRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

// RespondInvitationRequest accepts or declines a pending invitation
type RespondInvitationRequest struct {
	Accept bool `json:"accept"`
}

// InvitationResponse is the representation of an invitation
type InvitationResponse struct {
	ID            uuid.UUID  `json:"id"`
	BoardID       uuid.UUID  `json:"boardId"`
	BoardName     string     `json:"boardName,omitempty"`
	InvitedUserID uuid.UUID  `json:"invitedUserId"`
	InvitedBy     uuid.UUID  `json:"invitedBy"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
}

// ToInvitationResponse converts a domain invitation to its response form
func ToInvitationResponse(inv *domain.Invitation) InvitationResponse {
	resp := InvitationResponse{
		ID:            inv.ID,
		BoardID:       inv.BoardID,
		InvitedUserID: inv.InvitedUserID,
		InvitedBy:     inv.InvitedBy,
		Status:        string(inv.Status),
		CreatedAt:     inv.CreatedAt,
		RespondedAt:   inv.RespondedAt,
	}
	if inv.Board.ID != uuid.Nil {
		resp.BoardName = inv.Board.Name
	}
	return resp
}

// ToInvitationResponses converts a slice of domain invitations
func ToInvitationResponses(invitations []domain.Invitation) []InvitationResponse {
	out := make([]InvitationResponse, 0, len(invitations))
	for i := range invitations {
		out = append(out, ToInvitationResponse(&invitations[i]))
	}
	return out
}
