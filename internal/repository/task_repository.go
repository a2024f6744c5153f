package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kanban-board-api/internal/domain"
	"kanban-board-api/internal/ordering"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task, position *int) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]domain.Task, error)
	FindByColumnID(ctx context.Context, columnID uuid.UUID) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Move(ctx context.Context, id uuid.UUID, targetColumnID *uuid.UUID, targetIndex *int) (*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// taskRepositoryImpl is the GORM implementation of TaskRepository
type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

// Create inserts a task at the requested index of its column, shifting
// later siblings down by one. A nil position appends to the end. The
// column row is locked first so concurrent creates into the same column
// serialize and cannot both claim the same position.
func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task, position *int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column domain.Column
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&column, "id = ?", task.ColumnID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&domain.Task{}).
			Where("column_id = ?", task.ColumnID).
			Count(&count).Error; err != nil {
			return err
		}

		idx := int(count)
		if position != nil {
			idx = ordering.ClampIndex(*position, int(count))
		}

		if idx < int(count) {
			if err := tx.Model(&domain.Task{}).
				Where("column_id = ? AND position >= ?", task.ColumnID, idx).
				Update("position", gorm.Expr("position + 1")).Error; err != nil {
				return err
			}
		}

		task.Position = idx
		return tx.Create(task).Error
	})
}

// FindByID finds a task by its ID
func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByBoardID lists every task on a board grouped by column, each
// column's tasks in position order
func (r *taskRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("column_id ASC").
		Order("position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByColumnID lists a column's tasks in position order
func (r *taskRepositoryImpl) FindByColumnID(ctx context.Context, columnID uuid.UUID) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.db.WithContext(ctx).
		Where("column_id = ?", columnID).
		Order("position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists content field changes (title, description, labels)
func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).
		Model(task).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"labels":      task.Labels,
		}).Error
}

// Move relocates a task within its column or across columns of the same
// board. Both affected task lists are re-read under row locks inside the
// transaction and renumbered from the resulting id order, so positions
// stay contiguous regardless of what the caller saw before the move. A
// nil targetIndex appends to the end of the target column.
func (r *taskRepositoryImpl) Move(ctx context.Context, id uuid.UUID, targetColumnID *uuid.UUID, targetIndex *int) (*domain.Task, error) {
	var moved domain.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task domain.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&task, "id = ?", id).Error; err != nil {
			return err
		}

		destID := task.ColumnID
		if targetColumnID != nil {
			destID = *targetColumnID
		}

		if destID != task.ColumnID {
			var dest domain.Column
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&dest, "id = ?", destID).Error; err != nil {
				return err
			}
			if dest.BoardID != task.BoardID {
				return ErrColumnNotInBoard
			}
		}

		srcIDs, err := lockColumnTaskIDs(tx, task.ColumnID)
		if err != nil {
			return err
		}
		from := ordering.IndexOf(srcIDs, task.ID)
		if from < 0 {
			return gorm.ErrRecordNotFound
		}

		if destID == task.ColumnID {
			to := len(srcIDs) - 1
			if targetIndex != nil {
				to = *targetIndex
			}
			newOrder, changed := ordering.MoveWithin(srcIDs, from, to)
			if !changed {
				moved = task
				return nil
			}
			if err := writeTaskPositions(tx, newOrder, srcIDs); err != nil {
				return err
			}
			task.Position = ordering.IndexOf(newOrder, task.ID)
			moved = task
			return nil
		}

		dstIDs, err := lockColumnTaskIDs(tx, destID)
		if err != nil {
			return err
		}
		to := len(dstIDs)
		if targetIndex != nil {
			to = *targetIndex
		}

		newSrc, newDst := ordering.MoveAcross(srcIDs, dstIDs, from, to)

		if err := tx.Model(&domain.Task{}).
			Where("id = ?", task.ID).
			Updates(map[string]interface{}{
				"column_id": destID,
				"position":  ordering.IndexOf(newDst, task.ID),
			}).Error; err != nil {
			return err
		}
		if err := writeTaskPositions(tx, newSrc, nil); err != nil {
			return err
		}
		if err := writeTaskPositions(tx, newDst, nil); err != nil {
			return err
		}

		task.ColumnID = destID
		task.Position = ordering.IndexOf(newDst, task.ID)
		moved = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// Delete removes a task and closes the position gap in its column
func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task domain.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&task, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&domain.Task{}, "id = ?", id).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Task{}).
			Where("column_id = ? AND position > ?", task.ColumnID, task.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// lockColumnTaskIDs reads a column's task ids in position order under
// row locks
func lockColumnTaskIDs(tx *gorm.DB, columnID uuid.UUID) ([]uuid.UUID, error) {
	var tasks []domain.Task
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("column_id = ?", columnID).
		Order("position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	return ids, nil
}

// writeTaskPositions assigns each task its index as position. When prev
// is given, rows whose index did not change are skipped. The task
// position index is non-unique, so rows can be written independently.
func writeTaskPositions(tx *gorm.DB, order []uuid.UUID, prev []uuid.UUID) error {
	for i, id := range order {
		if prev != nil && i < len(prev) && prev[i] == id {
			continue
		}
		if err := tx.Model(&domain.Task{}).
			Where("id = ?", id).
			Update("position", i).Error; err != nil {
			return err
		}
	}
	return nil
}
