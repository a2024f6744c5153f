package database

import (
	"fmt"

	"gorm.io/gorm"

	"kanban-board-api/internal/domain"
)

// AutoMigrate runs GORM auto-migration for all domain models.
// Tables, indexes, and the cascade foreign keys from board to its
// columns, tasks, members, and invitations come from the struct tags.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.Board{},
		&domain.Member{},
		&domain.Invitation{},
		&domain.Column{},
		&domain.Task{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}
