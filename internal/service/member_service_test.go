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
	"kanban-board-api/internal/realtime"
	"kanban-board-api/internal/response"
)

func TestMemberService_List(t *testing.T) {
	memberRepo := new(mockMemberRepository)
	userID := uuid.New()
	boardID := uuid.New()

	owner := domain.Member{BoardID: boardID, UserID: uuid.New(), Role: domain.MemberRoleOwner}
	member := domain.Member{BoardID: boardID, UserID: userID, Role: domain.MemberRoleMember}
	memberRepo.On("FindByBoardID", mock.Anything, boardID).
		Return([]domain.Member{owner, member}, nil)

	svc := NewMemberService(memberRepo, readAccess(boardID, userID), nil, zap.NewNop())

	members, err := svc.List(context.Background(), userID, boardID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, string(domain.MemberRoleOwner), members[0].Role)
}

func TestMemberService_ListByOutsiderNotFound(t *testing.T) {
	access := new(mockAccessService)
	userID := uuid.New()
	boardID := uuid.New()
	access.On("CanRead", mock.Anything, boardID, userID).Return(false, nil)

	svc := NewMemberService(nil, access, nil, zap.NewNop())

	_, err := svc.List(context.Background(), userID, boardID)
	requireAppError(t, err, response.ErrCodeNotFound)
}

func TestMemberService_Remove(t *testing.T) {
	memberRepo := new(mockMemberRepository)
	events := &recordingPublisher{}
	ownerID := uuid.New()
	boardID := uuid.New()
	target := uuid.New()

	memberRepo.On("FindByBoardAndUser", mock.Anything, boardID, target).
		Return(&domain.Member{BoardID: boardID, UserID: target, Role: domain.MemberRoleMember}, nil)
	memberRepo.On("Delete", mock.Anything, boardID, target).Return(nil)

	svc := NewMemberService(memberRepo, ownerAccess(boardID, ownerID), events, zap.NewNop())

	require.NoError(t, svc.Remove(context.Background(), ownerID, boardID, target))
	assert.Equal(t, []string{realtime.EventMemberChanged}, events.broadcastEvents())
}

func TestMemberService_RemoveByMemberForbidden(t *testing.T) {
	userID := uuid.New()
	boardID := uuid.New()

	svc := NewMemberService(nil, memberAccess(boardID, userID), nil, zap.NewNop())

	err := svc.Remove(context.Background(), userID, boardID, uuid.New())
	requireAppError(t, err, response.ErrCodeForbidden)
}

func TestMemberService_RemoveOwnerRejected(t *testing.T) {
	memberRepo := new(mockMemberRepository)
	ownerID := uuid.New()
	boardID := uuid.New()

	memberRepo.On("FindByBoardAndUser", mock.Anything, boardID, ownerID).
		Return(&domain.Member{BoardID: boardID, UserID: ownerID, Role: domain.MemberRoleOwner}, nil)

	svc := NewMemberService(memberRepo, ownerAccess(boardID, ownerID), nil, zap.NewNop())

	err := svc.Remove(context.Background(), ownerID, boardID, ownerID)
	requireAppError(t, err, response.ErrCodeValidation)
}

func TestMemberService_RemoveMissingMemberNotFound(t *testing.T) {
	memberRepo := new(mockMemberRepository)
	ownerID := uuid.New()
	boardID := uuid.New()
	target := uuid.New()

	memberRepo.On("FindByBoardAndUser", mock.Anything, boardID, target).
		Return(nil, gorm.ErrRecordNotFound)

	svc := NewMemberService(memberRepo, ownerAccess(boardID, ownerID), nil, zap.NewNop())

	err := svc.Remove(context.Background(), ownerID, boardID, target)
	requireAppError(t, err, response.ErrCodeNotFound)
}

func TestMemberService_Leave(t *testing.T) {
	memberRepo := new(mockMemberRepository)
	events := &recordingPublisher{}
	userID := uuid.New()
	boardID := uuid.New()

	memberRepo.On("FindByBoardAndUser", mock.Anything, boardID, userID).
		Return(&domain.Member{BoardID: boardID, UserID: userID, Role: domain.MemberRoleMember}, nil)
	memberRepo.On("Delete", mock.Anything, boardID, userID).Return(nil)

	svc := NewMemberService(memberRepo, nil, events, zap.NewNop())

	require.NoError(t, svc.Leave(context.Background(), userID, boardID))
	assert.Equal(t, []string{realtime.EventMemberChanged}, events.broadcastEvents())
}

func TestMemberService_LeaveByOwnerRejected(t *testing.T) {
	memberRepo := new(mockMemberRepository)
	ownerID := uuid.New()
	boardID := uuid.New()

	memberRepo.On("FindByBoardAndUser", mock.Anything, boardID, ownerID).
		Return(&domain.Member{BoardID: boardID, UserID: ownerID, Role: domain.MemberRoleOwner}, nil)

	svc := NewMemberService(memberRepo, nil, nil, zap.NewNop())

	err := svc.Leave(context.Background(), ownerID, boardID)
	requireAppError(t, err, response.ErrCodeValidation)
}
