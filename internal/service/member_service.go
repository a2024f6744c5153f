package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-board-api/internal/domain"
	"kanban-board-api/internal/dto"
	"kanban-board-api/internal/realtime"
	"kanban-board-api/internal/repository"
	"kanban-board-api/internal/response"
)

// MemberService defines the interface for board membership business logic
type MemberService interface {
	// List returns a board's members. Any member may look.
	List(ctx context.Context, userID, boardID uuid.UUID) ([]dto.MemberResponse, error)
	// Remove kicks a member off a board. Owner only; the owner row
	// itself cannot be removed.
	Remove(ctx context.Context, userID, boardID, targetUserID uuid.UUID) error
	// Leave removes the caller's own membership. The owner cannot leave.
	Leave(ctx context.Context, userID, boardID uuid.UUID) error
}

// memberServiceImpl implements MemberService
type memberServiceImpl struct {
	memberRepo repository.MemberRepository
	access     AccessService
	events     EventPublisher
	logger     *zap.Logger
}

// NewMemberService creates a new instance of MemberService
func NewMemberService(
	memberRepo repository.MemberRepository,
	access AccessService,
	events EventPublisher,
	logger *zap.Logger,
) MemberService {
	if events == nil {
		events = NewNoopPublisher()
	}
	return &memberServiceImpl{
		memberRepo: memberRepo,
		access:     access,
		events:     events,
		logger:     logger,
	}
}

// List returns a board's members, owner first
func (s *memberServiceImpl) List(ctx context.Context, userID, boardID uuid.UUID) ([]dto.MemberResponse, error) {
	if err := s.requireRead(ctx, boardID, userID); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, s.internal(err, "failed to list members")
	}
	return dto.ToMemberResponses(members), nil
}

// Remove kicks a member off the board
func (s *memberServiceImpl) Remove(ctx context.Context, userID, boardID, targetUserID uuid.UUID) error {
	if err := s.requireRead(ctx, boardID, userID); err != nil {
		return err
	}
	owner, err := s.access.IsOwner(ctx, boardID, userID)
	if err != nil {
		return s.internal(err, "failed to check board ownership")
	}
	if !owner {
		return response.NewAppError(response.ErrCodeForbidden, "only the board owner may remove members", "")
	}

	target, err := s.memberRepo.FindByBoardAndUser(ctx, boardID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "member not found", "")
		}
		return s.internal(err, "failed to load member")
	}
	if target.Role == domain.MemberRoleOwner {
		return response.NewAppError(response.ErrCodeValidation, "the board owner cannot be removed", "")
	}

	if err := s.memberRepo.Delete(ctx, boardID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "member not found", "")
		}
		return s.internal(err, "failed to remove member")
	}

	s.events.BroadcastToBoard(boardID, realtime.EventMemberChanged, map[string]interface{}{
		"boardId": boardID,
		"userId":  targetUserID,
		"action":  "removed",
	})
	return nil
}

// Leave removes the caller's own membership
func (s *memberServiceImpl) Leave(ctx context.Context, userID, boardID uuid.UUID) error {
	member, err := s.memberRepo.FindByBoardAndUser(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "board not found", "")
		}
		return s.internal(err, "failed to load membership")
	}
	if member.Role == domain.MemberRoleOwner {
		return response.NewAppError(response.ErrCodeValidation, "the board owner cannot leave the board", "")
	}

	if err := s.memberRepo.Delete(ctx, boardID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "board not found", "")
		}
		return s.internal(err, "failed to leave board")
	}

	s.events.BroadcastToBoard(boardID, realtime.EventMemberChanged, map[string]interface{}{
		"boardId": boardID,
		"userId":  userID,
		"action":  "left",
	})
	return nil
}

func (s *memberServiceImpl) requireRead(ctx context.Context, boardID, userID uuid.UUID) error {
	ok, err := s.access.CanRead(ctx, boardID, userID)
	if err != nil {
		return s.internal(err, "failed to check board access")
	}
	if !ok {
		return response.NewAppError(response.ErrCodeNotFound, "board not found", "")
	}
	return nil
}

func (s *memberServiceImpl) internal(err error, msg string) error {
	s.logger.Error(msg, zap.Error(err))
	return response.NewAppError(response.ErrCodeInternal, msg, err.Error())
}
