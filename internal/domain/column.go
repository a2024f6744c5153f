package domain

import "github.com/google/uuid"

// Column is an ordered list of tasks within a board. Positions of a
// board's columns form a contiguous 0..n-1 permutation at rest; the
// unique index enforces this between operations, so multi-row position
// rewrites go through the offset protocol in the repository layer.
type Column struct {
	BaseModel
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index:idx_columns_board_id;uniqueIndex:uq_columns_board_position,priority:1" json:"board_id"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`
	Position int       `gorm:"not null;uniqueIndex:uq_columns_board_position,priority:2" json:"position"`
	Board    Board     `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
}

// TableName specifies the table name for Column
func (Column) TableName() string {
	return "columns"
}
