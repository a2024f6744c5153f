package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Task belongs to exactly one column at any instant. Positions within a
// column form a contiguous 0..m-1 permutation at rest. The composite
// index is deliberately non-unique: task moves rewrite independent rows
// directly, so positions may collide transiently inside a transaction.
type Task struct {
	BaseModel
	BoardID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_board_id" json:"board_id"`
	ColumnID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_column_position,priority:1" json:"column_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Labels      datatypes.JSON `gorm:"type:jsonb" json:"labels,omitempty"`
	Position    int            `gorm:"not null;index:idx_tasks_column_position,priority:2" json:"position"`
	Board       Board          `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
	Column      Column         `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE" json:"column,omitempty"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}
