package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-board-api/internal/domain"
	"kanban-board-api/internal/dto"
	"kanban-board-api/internal/realtime"
	"kanban-board-api/internal/repository"
	"kanban-board-api/internal/response"
)

func readAccess(boardID, userID uuid.UUID) *mockAccessService {
	access := new(mockAccessService)
	access.On("CanRead", mock.Anything, boardID, userID).Return(true, nil)
	return access
}

func TestTaskService_CreateBroadcastsEvent(t *testing.T) {
	taskRepo := new(mockTaskRepository)
	columnRepo := new(mockColumnRepository)
	events := &recordingPublisher{}
	userID := uuid.New()
	boardID := uuid.New()

	column := &domain.Column{BoardID: boardID, Name: "To Do"}
	column.ID = uuid.New()

	columnRepo.On("FindByID", mock.Anything, column.ID).Return(column, nil)
	taskRepo.On("Create", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
		return task.BoardID == boardID && task.ColumnID == column.ID && task.Title == "write tests"
	}), (*int)(nil)).Return(nil)

	svc := NewTaskService(taskRepo, columnRepo, readAccess(boardID, userID), events, nil, zap.NewNop())

	resp, err := svc.Create(context.Background(), userID, boardID, &dto.CreateTaskRequest{
		ColumnID: column.ID,
		Title:    "write tests",
		Labels:   []string{"chore"},
	})
	require.NoError(t, err)
	assert.Equal(t, "write tests", resp.Title)
	assert.Equal(t, []string{"chore"}, resp.Labels)
	assert.Equal(t, []string{realtime.EventTaskCreated}, events.broadcastEvents())
}

func TestTaskService_CreateRejectsForeignColumn(t *testing.T) {
	columnRepo := new(mockColumnRepository)
	userID := uuid.New()
	boardID := uuid.New()

	foreign := &domain.Column{BoardID: uuid.New(), Name: "To Do"}
	foreign.ID = uuid.New()

	columnRepo.On("FindByID", mock.Anything, foreign.ID).Return(foreign, nil)

	svc := NewTaskService(nil, columnRepo, readAccess(boardID, userID), nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), userID, boardID, &dto.CreateTaskRequest{
		ColumnID: foreign.ID,
		Title:    "task",
	})
	requireAppError(t, err, response.ErrCodeValidation)
}

func TestTaskService_CreateMissingColumnNotFound(t *testing.T) {
	columnRepo := new(mockColumnRepository)
	userID := uuid.New()
	boardID := uuid.New()
	columnID := uuid.New()

	columnRepo.On("FindByID", mock.Anything, columnID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewTaskService(nil, columnRepo, readAccess(boardID, userID), nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), userID, boardID, &dto.CreateTaskRequest{
		ColumnID: columnID,
		Title:    "task",
	})
	requireAppError(t, err, response.ErrCodeNotFound)
}

func TestTaskService_CreateByOutsiderNotFound(t *testing.T) {
	access := new(mockAccessService)
	userID := uuid.New()
	boardID := uuid.New()
	access.On("CanRead", mock.Anything, boardID, userID).Return(false, nil)

	svc := NewTaskService(nil, nil, access, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), userID, boardID, &dto.CreateTaskRequest{
		ColumnID: uuid.New(),
		Title:    "task",
	})
	requireAppError(t, err, response.ErrCodeNotFound)
}

func TestTaskService_UpdateContentOnly(t *testing.T) {
	taskRepo := new(mockTaskRepository)
	events := &recordingPublisher{}
	userID := uuid.New()
	boardID := uuid.New()

	task := &domain.Task{BoardID: boardID, ColumnID: uuid.New(), Title: "before", Labels: []byte(`[]`)}
	task.ID = uuid.New()

	taskRepo.On("FindByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("Update", mock.Anything, mock.MatchedBy(func(updated *domain.Task) bool {
		return updated.Title == "after"
	})).Return(nil)

	svc := NewTaskService(taskRepo, nil, readAccess(boardID, userID), events, nil, zap.NewNop())

	title := "after"
	resp, err := svc.Update(context.Background(), userID, task.ID, &dto.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "after", resp.Title)
	assert.Equal(t, []string{realtime.EventTaskUpdated}, events.broadcastEvents())
	taskRepo.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_UpdateWithMove(t *testing.T) {
	taskRepo := new(mockTaskRepository)
	events := &recordingPublisher{}
	userID := uuid.New()
	boardID := uuid.New()
	targetColumn := uuid.New()

	task := &domain.Task{BoardID: boardID, ColumnID: uuid.New(), Title: "task", Position: 2, Labels: []byte(`[]`)}
	task.ID = uuid.New()
	moved := &domain.Task{BoardID: boardID, ColumnID: targetColumn, Title: "task", Position: 0, Labels: []byte(`[]`)}
	moved.ID = task.ID

	position := 0
	taskRepo.On("FindByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("Move", mock.Anything, task.ID, &targetColumn, &position).Return(moved, nil)

	svc := NewTaskService(taskRepo, nil, readAccess(boardID, userID), events, nil, zap.NewNop())

	resp, err := svc.Update(context.Background(), userID, task.ID, &dto.UpdateTaskRequest{
		ColumnID: &targetColumn,
		Position: &position,
	})
	require.NoError(t, err)
	assert.Equal(t, targetColumn, resp.ColumnID)
	assert.Equal(t, 0, resp.Position)
	taskRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTaskService_UpdateMoveToForeignBoardConflict(t *testing.T) {
	taskRepo := new(mockTaskRepository)
	userID := uuid.New()
	boardID := uuid.New()
	targetColumn := uuid.New()

	task := &domain.Task{BoardID: boardID, ColumnID: uuid.New(), Title: "task", Labels: []byte(`[]`)}
	task.ID = uuid.New()

	taskRepo.On("FindByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("Move", mock.Anything, task.ID, &targetColumn, (*int)(nil)).
		Return(nil, repository.ErrColumnNotInBoard)

	svc := NewTaskService(taskRepo, nil, readAccess(boardID, userID), nil, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), userID, task.ID, &dto.UpdateTaskRequest{ColumnID: &targetColumn})
	requireAppError(t, err, response.ErrCodeConflict)
}

func TestTaskService_UpdateFailedMoveSkipsContentWrite(t *testing.T) {
	taskRepo := new(mockTaskRepository)
	events := &recordingPublisher{}
	userID := uuid.New()
	boardID := uuid.New()
	targetColumn := uuid.New()

	task := &domain.Task{BoardID: boardID, ColumnID: uuid.New(), Title: "before", Labels: []byte(`[]`)}
	task.ID = uuid.New()

	taskRepo.On("FindByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("Move", mock.Anything, task.ID, &targetColumn, (*int)(nil)).
		Return(nil, repository.ErrColumnNotInBoard)

	svc := NewTaskService(taskRepo, nil, readAccess(boardID, userID), events, nil, zap.NewNop())

	title := "after"
	_, err := svc.Update(context.Background(), userID, task.ID, &dto.UpdateTaskRequest{
		Title:    &title,
		ColumnID: &targetColumn,
	})
	requireAppError(t, err, response.ErrCodeConflict)

	// The rejected request must not commit the content half either
	taskRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Empty(t, events.broadcastEvents())
}

func TestTaskService_DeleteBroadcastsEvent(t *testing.T) {
	taskRepo := new(mockTaskRepository)
	events := &recordingPublisher{}
	userID := uuid.New()
	boardID := uuid.New()

	task := &domain.Task{BoardID: boardID, ColumnID: uuid.New(), Title: "task", Labels: []byte(`[]`)}
	task.ID = uuid.New()

	taskRepo.On("FindByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("Delete", mock.Anything, task.ID).Return(nil)

	svc := NewTaskService(taskRepo, nil, readAccess(boardID, userID), events, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), userID, task.ID))
	assert.Equal(t, []string{realtime.EventTaskDeleted}, events.broadcastEvents())
}

func TestTaskService_DeleteMissingTaskNotFound(t *testing.T) {
	taskRepo := new(mockTaskRepository)
	userID := uuid.New()
	taskID := uuid.New()

	taskRepo.On("FindByID", mock.Anything, taskID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewTaskService(taskRepo, nil, nil, nil, nil, zap.NewNop())

	err := svc.Delete(context.Background(), userID, taskID)
	requireAppError(t, err, response.ErrCodeNotFound)
}
