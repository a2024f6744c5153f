package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanban-board-api/internal/domain"
	"kanban-board-api/internal/repository"
)

// AccessService answers visibility and ownership questions for boards.
// Every other service consults it before touching board contents.
type AccessService interface {
	// CanRead reports whether the user may view and work on the board.
	// A missing board reports false with no error.
	CanRead(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
	// IsOwner reports whether the user owns the board.
	IsOwner(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
	// RoleOf returns the user's role on the board, or
	// gorm.ErrRecordNotFound when they have none.
	RoleOf(ctx context.Context, boardID, userID uuid.UUID) (domain.MemberRole, error)
}

// accessServiceImpl implements AccessService on top of the membership table
type accessServiceImpl struct {
	boardRepo  repository.BoardRepository
	memberRepo repository.MemberRepository
}

// NewAccessService creates a new instance of AccessService
func NewAccessService(boardRepo repository.BoardRepository, memberRepo repository.MemberRepository) AccessService {
	return &accessServiceImpl{
		boardRepo:  boardRepo,
		memberRepo: memberRepo,
	}
}

// CanRead checks for a membership row. The owner's row is materialized
// at board creation, so membership covers both roles.
func (s *accessServiceImpl) CanRead(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	_, err := s.memberRepo.FindByBoardAndUser(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsOwner checks board ownership. A missing board reports false.
func (s *accessServiceImpl) IsOwner(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return board.OwnerID == userID, nil
}

// RoleOf returns the user's role on the board
func (s *accessServiceImpl) RoleOf(ctx context.Context, boardID, userID uuid.UUID) (domain.MemberRole, error) {
	member, err := s.memberRepo.FindByBoardAndUser(ctx, boardID, userID)
	if err != nil {
		return "", err
	}
	return member.Role, nil
}
