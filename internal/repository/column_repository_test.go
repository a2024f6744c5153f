package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestColumnRepository_CreateAppendsPositions(t *testing.T) {
	db := setupTestDB(t)
	board := createTestBoard(t, db, uuid.New())

	todo := createTestColumn(t, db, board.ID, "To Do")
	doing := createTestColumn(t, db, board.ID, "Doing")
	done := createTestColumn(t, db, board.ID, "Done")

	assert.Equal(t, 0, todo.Position)
	assert.Equal(t, 1, doing.Position)
	assert.Equal(t, 2, done.Position)
}

func TestColumnRepository_CreateCountsPerBoard(t *testing.T) {
	db := setupTestDB(t)
	boardA := createTestBoard(t, db, uuid.New())
	boardB := createTestBoard(t, db, uuid.New())

	createTestColumn(t, db, boardA.ID, "To Do")
	createTestColumn(t, db, boardA.ID, "Done")
	first := createTestColumn(t, db, boardB.ID, "Backlog")

	assert.Equal(t, 0, first.Position)
}

func TestColumnRepository_FindByBoardIDOrdersByPosition(t *testing.T) {
	db := setupTestDB(t)
	repo := NewColumnRepository(db)
	board := createTestBoard(t, db, uuid.New())

	createTestColumn(t, db, board.ID, "To Do")
	createTestColumn(t, db, board.ID, "Doing")
	createTestColumn(t, db, board.ID, "Done")

	columns, err := repo.FindByBoardID(context.Background(), board.ID)
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, []string{"To Do", "Doing", "Done"},
		[]string{columns[0].Name, columns[1].Name, columns[2].Name})
}

func TestColumnRepository_Rename(t *testing.T) {
	db := setupTestDB(t)
	repo := NewColumnRepository(db)
	board := createTestBoard(t, db, uuid.New())
	column := createTestColumn(t, db, board.ID, "To Do")

	require.NoError(t, repo.Rename(context.Background(), column.ID, "Backlog"))

	updated, err := repo.FindByID(context.Background(), column.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backlog", updated.Name)
}

func TestColumnRepository_RenameMissingColumn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewColumnRepository(db)

	err := repo.Rename(context.Background(), uuid.New(), "Backlog")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestColumnRepository_Reorder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewColumnRepository(db)
	board := createTestBoard(t, db, uuid.New())

	a := createTestColumn(t, db, board.ID, "A")
	b := createTestColumn(t, db, board.ID, "B")
	c := createTestColumn(t, db, board.ID, "C")

	require.NoError(t, repo.Reorder(context.Background(), board.ID,
		[]uuid.UUID{c.ID, a.ID, b.ID}))

	positions := columnPositions(t, db, board.ID)
	assert.Equal(t, 0, positions[c.ID])
	assert.Equal(t, 1, positions[a.ID])
	assert.Equal(t, 2, positions[b.ID])
}

func TestColumnRepository_ReorderRejectsMismatchedSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewColumnRepository(db)
	board := createTestBoard(t, db, uuid.New())

	a := createTestColumn(t, db, board.ID, "A")
	b := createTestColumn(t, db, board.ID, "B")

	cases := map[string][]uuid.UUID{
		"missing id":   {a.ID},
		"foreign id":   {a.ID, uuid.New()},
		"duplicate id": {a.ID, a.ID},
		"extra id":     {a.ID, b.ID, uuid.New()},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			err := repo.Reorder(context.Background(), board.ID, ids)
			assert.ErrorIs(t, err, ErrColumnSetMismatch)
		})
	}

	// Rejected reorders leave positions untouched
	positions := columnPositions(t, db, board.ID)
	assert.Equal(t, 0, positions[a.ID])
	assert.Equal(t, 1, positions[b.ID])
}

func TestColumnRepository_DeleteRepacksPositions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewColumnRepository(db)
	board := createTestBoard(t, db, uuid.New())

	a := createTestColumn(t, db, board.ID, "A")
	b := createTestColumn(t, db, board.ID, "B")
	c := createTestColumn(t, db, board.ID, "C")
	d := createTestColumn(t, db, board.ID, "D")

	require.NoError(t, repo.Delete(context.Background(), b.ID))

	positions := columnPositions(t, db, board.ID)
	require.Len(t, positions, 3)
	assert.Equal(t, 0, positions[a.ID])
	assert.Equal(t, 1, positions[c.ID])
	assert.Equal(t, 2, positions[d.ID])
}

func TestColumnRepository_DeleteRejectsNonEmptyColumn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewColumnRepository(db)
	board := createTestBoard(t, db, uuid.New())

	a := createTestColumn(t, db, board.ID, "A")
	b := createTestColumn(t, db, board.ID, "B")
	createTestTask(t, db, board.ID, a.ID, "task")

	err := repo.Delete(context.Background(), a.ID)
	assert.ErrorIs(t, err, ErrColumnNotEmpty)

	// The failed delete leaves the column and its neighbors in place
	positions := columnPositions(t, db, board.ID)
	require.Len(t, positions, 2)
	assert.Equal(t, 0, positions[a.ID])
	assert.Equal(t, 1, positions[b.ID])
}

func TestColumnRepository_DeleteMissingColumn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewColumnRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
