package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus represents the lifecycle state of an invitation
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is a pending request binding an invited user to a board.
// At most one pending invitation may exist per (board, invited user);
// a responded invitation is terminal.
type Invitation struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BoardID       uuid.UUID        `gorm:"type:uuid;not null;index:idx_invitations_board_id;index:idx_invitations_board_user,priority:1" json:"board_id"`
	InvitedUserID uuid.UUID        `gorm:"type:uuid;not null;index:idx_invitations_invited_user;index:idx_invitations_board_user,priority:2" json:"invited_user_id"`
	InvitedBy     uuid.UUID        `gorm:"type:uuid;not null" json:"invited_by"`
	Status        InvitationStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_invitations_status" json:"status"`
	CreatedAt     time.Time        `gorm:"not null" json:"created_at"`
	RespondedAt   *time.Time       `gorm:"type:timestamp" json:"responded_at,omitempty"`
	Board         Board            `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
}

// TableName specifies the table name for Invitation
func (Invitation) TableName() string {
	return "invitations"
}
