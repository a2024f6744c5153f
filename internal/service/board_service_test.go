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
	"kanban-board-api/internal/response"
)

func TestBoardService_Create(t *testing.T) {
	boardRepo := new(mockBoardRepository)
	userID := uuid.New()

	boardRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Board) bool {
		return b.Name == "roadmap" && b.OwnerID == userID
	})).Return(nil)

	svc := NewBoardService(boardRepo, nil, nil, nil, nil, zap.NewNop())

	resp, err := svc.Create(context.Background(), userID, &dto.CreateBoardRequest{Name: "roadmap"})
	require.NoError(t, err)
	assert.Equal(t, "roadmap", resp.Name)
	assert.Equal(t, string(domain.MemberRoleOwner), resp.Role)
	boardRepo.AssertExpectations(t)
}

func TestBoardService_ListAssignsRoles(t *testing.T) {
	boardRepo := new(mockBoardRepository)
	userID := uuid.New()

	owned := domain.Board{Name: "mine", OwnerID: userID}
	owned.ID = uuid.New()
	joined := domain.Board{Name: "theirs", OwnerID: uuid.New()}
	joined.ID = uuid.New()

	boardRepo.On("FindByUser", mock.Anything, userID).Return([]domain.Board{owned, joined}, nil)

	svc := NewBoardService(boardRepo, nil, nil, nil, nil, zap.NewNop())

	boards, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, string(domain.MemberRoleOwner), boards[0].Role)
	assert.Equal(t, string(domain.MemberRoleMember), boards[1].Role)
}

func TestBoardService_GetDeniedReportsNotFound(t *testing.T) {
	access := new(mockAccessService)
	userID := uuid.New()
	boardID := uuid.New()

	access.On("CanRead", mock.Anything, boardID, userID).Return(false, nil)

	svc := NewBoardService(nil, nil, nil, access, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), userID, boardID)
	requireAppError(t, err, response.ErrCodeNotFound)
}

func TestBoardService_GetReturnsDetail(t *testing.T) {
	boardRepo := new(mockBoardRepository)
	columnRepo := new(mockColumnRepository)
	taskRepo := new(mockTaskRepository)
	access := new(mockAccessService)
	userID := uuid.New()

	board := &domain.Board{Name: "roadmap", OwnerID: uuid.New()}
	board.ID = uuid.New()
	column := domain.Column{BoardID: board.ID, Name: "To Do", Position: 0}
	column.ID = uuid.New()
	task := domain.Task{BoardID: board.ID, ColumnID: column.ID, Title: "task", Position: 0}
	task.ID = uuid.New()

	access.On("CanRead", mock.Anything, board.ID, userID).Return(true, nil)
	boardRepo.On("FindByID", mock.Anything, board.ID).Return(board, nil)
	columnRepo.On("FindByBoardID", mock.Anything, board.ID).Return([]domain.Column{column}, nil)
	taskRepo.On("FindByBoardID", mock.Anything, board.ID).Return([]domain.Task{task}, nil)

	svc := NewBoardService(boardRepo, columnRepo, taskRepo, access, nil, zap.NewNop())

	detail, err := svc.Get(context.Background(), userID, board.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.MemberRoleMember), detail.Role)
	require.Len(t, detail.Columns, 1)
	require.Len(t, detail.Tasks, 1)
	assert.Equal(t, column.ID, detail.Columns[0].ID)
	assert.Equal(t, task.ID, detail.Tasks[0].ID)
}

func TestBoardService_GetRoleOutsiderReportsNotFound(t *testing.T) {
	access := new(mockAccessService)
	userID := uuid.New()
	boardID := uuid.New()

	access.On("RoleOf", mock.Anything, boardID, userID).
		Return(domain.MemberRole(""), gorm.ErrRecordNotFound)

	svc := NewBoardService(nil, nil, nil, access, nil, zap.NewNop())

	_, err := svc.GetRole(context.Background(), userID, boardID)
	requireAppError(t, err, response.ErrCodeNotFound)
}

func TestBoardService_DeleteByMemberForbidden(t *testing.T) {
	access := new(mockAccessService)
	userID := uuid.New()
	boardID := uuid.New()

	access.On("CanRead", mock.Anything, boardID, userID).Return(true, nil)
	access.On("IsOwner", mock.Anything, boardID, userID).Return(false, nil)

	svc := NewBoardService(nil, nil, nil, access, nil, zap.NewNop())

	err := svc.Delete(context.Background(), userID, boardID)
	requireAppError(t, err, response.ErrCodeForbidden)
}

func TestBoardService_DeleteByOwner(t *testing.T) {
	boardRepo := new(mockBoardRepository)
	access := new(mockAccessService)
	userID := uuid.New()
	boardID := uuid.New()

	access.On("CanRead", mock.Anything, boardID, userID).Return(true, nil)
	access.On("IsOwner", mock.Anything, boardID, userID).Return(true, nil)
	boardRepo.On("Delete", mock.Anything, boardID).Return(nil)

	svc := NewBoardService(boardRepo, nil, nil, access, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), userID, boardID))
	boardRepo.AssertExpectations(t)
}
