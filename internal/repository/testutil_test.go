package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kanban-board-api/internal/domain"
)

// setupTestDB creates an in-memory SQLite database with the kanban
// schema. SQLite has no uuid type or gen_random_uuid(), so ids are
// generated by a create callback and tables are created by hand.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to open test database")

	db.Callback().Create().Before("gorm:create").Register("generate_uuid", func(db *gorm.DB) {
		if db.Statement.Schema != nil {
			for _, field := range db.Statement.Schema.PrimaryFields {
				if field.DataType == "uuid" {
					fieldValue := field.ReflectValueOf(db.Statement.Context, db.Statement.ReflectValue)
					if fieldValue.IsZero() {
						field.Set(db.Statement.Context, db.Statement.ReflectValue, uuid.New())
					}
				}
			}
		}
	})

	statements := []string{
		`CREATE TABLE boards (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			name TEXT NOT NULL,
			owner_id TEXT NOT NULL
		)`,
		`CREATE TABLE members (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'member',
			joined_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(board_id, user_id)
		)`,
		`CREATE TABLE invitations (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL,
			invited_user_id TEXT NOT NULL,
			invited_by TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL,
			responded_at DATETIME
		)`,
		`CREATE TABLE columns (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			board_id TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			UNIQUE(board_id, position)
		)`,
		`CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			board_id TEXT NOT NULL,
			column_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			labels TEXT,
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX idx_tasks_column_position ON tasks(column_id, position)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error, "Failed to create schema")
	}

	return db
}

// createTestBoard inserts a board with a materialized owner member row
func createTestBoard(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *domain.Board {
	t.Helper()

	board := &domain.Board{Name: "test board", OwnerID: ownerID}
	require.NoError(t, NewBoardRepository(db).Create(context.Background(), board))
	return board
}

// createTestColumn appends a column via the repository
func createTestColumn(t *testing.T, db *gorm.DB, boardID uuid.UUID, name string) *domain.Column {
	t.Helper()

	column := &domain.Column{BoardID: boardID, Name: name}
	require.NoError(t, NewColumnRepository(db).Create(context.Background(), column))
	return column
}

// createTestTask appends a task via the repository
func createTestTask(t *testing.T, db *gorm.DB, boardID, columnID uuid.UUID, title string) *domain.Task {
	t.Helper()

	task := &domain.Task{BoardID: boardID, ColumnID: columnID, Title: title}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), task, nil))
	return task
}

// columnPositions reads (id, position) pairs for a board ordered by position
func columnPositions(t *testing.T, db *gorm.DB, boardID uuid.UUID) map[uuid.UUID]int {
	t.Helper()

	var columns []domain.Column
	require.NoError(t, db.Where("board_id = ?", boardID).Find(&columns).Error)

	out := make(map[uuid.UUID]int, len(columns))
	for _, c := range columns {
		out[c.ID] = c.Position
	}
	return out
}

// requireContiguous asserts that positions form exactly 0..n-1
func requireContiguous(t *testing.T, positions []int) {
	t.Helper()

	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		require.False(t, seen[p], "duplicate position %d", p)
		require.GreaterOrEqual(t, p, 0)
		require.Less(t, p, len(positions), "position %d out of range", p)
		seen[p] = true
	}
}

// taskPositions reads a column's task positions ordered by position
func taskPositions(t *testing.T, db *gorm.DB, columnID uuid.UUID) []int {
	t.Helper()

	var tasks []domain.Task
	require.NoError(t, db.Where("column_id = ?", columnID).Order("position ASC").Find(&tasks).Error)

	out := make([]int, len(tasks))
	for i, task := range tasks {
		out[i] = task.Position
	}
	return out
}
