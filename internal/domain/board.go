package domain

import (
	"time"

	"github.com/google/uuid"
)

// Board represents a kanban board owned by a single user
type Board struct {
	BaseModel
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID     uuid.UUID    `gorm:"type:uuid;not null;index:idx_boards_owner_id" json:"owner_id"`
	Columns     []Column     `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"columns,omitempty"`
	Tasks       []Task       `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Members     []Member     `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Invitations []Invitation `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"invitations,omitempty"`
}

// MemberRole represents the role of a board member
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// Member relates a user to a board. The board creator gets a
// materialized owner row; exactly one owner exists per board.
type Member struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BoardID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_members_board_id;uniqueIndex:uq_members_board_user" json:"board_id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_members_user_id;uniqueIndex:uq_members_board_user" json:"user_id"`
	Role     MemberRole `gorm:"type:varchar(50);not null;default:'member'" json:"role"`
	JoinedAt time.Time  `gorm:"type:timestamp;not null;default:now()" json:"joined_at"`
	Board    Board      `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}

// TableName specifies the table name for Member
func (Member) TableName() string {
	return "members"
}
