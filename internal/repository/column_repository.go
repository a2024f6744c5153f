package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kanban-board-api/internal/domain"
	"kanban-board-api/internal/ordering"
)

// positionOffset shifts positions out of the live range during multi-row
// rewrites so the (board_id, position) unique index never sees a
// transient collision. Boards stay far below this many columns.
const positionOffset = 1 << 20

// ColumnRepository defines the interface for column data access
type ColumnRepository interface {
	Create(ctx context.Context, column *domain.Column) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Column, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]domain.Column, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Reorder(ctx context.Context, boardID uuid.UUID, orderedIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// columnRepositoryImpl is the GORM implementation of ColumnRepository
type columnRepositoryImpl struct {
	db *gorm.DB
}

// NewColumnRepository creates a new instance of ColumnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &columnRepositoryImpl{db: db}
}

// Create appends a column at the end of its board's order
func (r *columnRepositoryImpl) Create(ctx context.Context, column *domain.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Column{}).
			Where("board_id = ?", column.BoardID).
			Count(&count).Error; err != nil {
			return err
		}

		column.Position = int(count)
		return tx.Create(column).Error
	})
}

// FindByID finds a column by its ID
func (r *columnRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	var column domain.Column
	if err := r.db.WithContext(ctx).First(&column, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// FindByBoardID lists a board's columns in position order
func (r *columnRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]domain.Column, error) {
	var columns []domain.Column
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC").
		Find(&columns).Error; err != nil {
		return nil, err
	}
	return columns, nil
}

// Rename updates a column's name
func (r *columnRepositoryImpl) Rename(ctx context.Context, id uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Column{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Reorder replaces the position order of a board's columns. The
// submitted ids must be a permutation of the board's current column set.
// All rows are first shifted by a large offset in one statement, then
// written to their final index, so the unique position index holds at
// every point inside the transaction.
func (r *columnRepositoryImpl) Reorder(ctx context.Context, boardID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []domain.Column
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("board_id = ?", boardID).
			Order("position ASC").
			Find(&current).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(current))
		for i := range current {
			currentIDs[i] = current[i].ID
		}
		if !ordering.SameSet(currentIDs, orderedIDs) {
			return ErrColumnSetMismatch
		}

		if err := tx.Model(&domain.Column{}).
			Where("board_id = ?", boardID).
			Update("position", gorm.Expr("position + ?", positionOffset)).Error; err != nil {
			return err
		}

		for i, id := range orderedIDs {
			if err := tx.Model(&domain.Column{}).
				Where("id = ? AND board_id = ?", id, boardID).
				Update("position", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes an empty column and closes the position gap it leaves.
// The emptiness check runs inside the transaction so a task created
// concurrently cannot be orphaned.
func (r *columnRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column domain.Column
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&column, "id = ?", id).Error; err != nil {
			return err
		}

		var taskCount int64
		if err := tx.Model(&domain.Task{}).
			Where("column_id = ?", id).
			Count(&taskCount).Error; err != nil {
			return err
		}
		if taskCount > 0 {
			return ErrColumnNotEmpty
		}

		if err := tx.Delete(&domain.Column{}, "id = ?", id).Error; err != nil {
			return err
		}

		// Repack via the offset so trailing columns never collide while
		// sliding down into the gap.
		if err := tx.Model(&domain.Column{}).
			Where("board_id = ? AND position > ?", column.BoardID, column.Position).
			Update("position", gorm.Expr("position + ?", positionOffset)).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Column{}).
			Where("board_id = ? AND position > ?", column.BoardID, positionOffset).
			Update("position", gorm.Expr("position - ?", positionOffset+1)).Error
	})
}
