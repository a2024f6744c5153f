package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanban-board-api/internal/domain"
)

// MemberRepository defines the interface for board membership data access
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]domain.Member, error)
	FindByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.Member, error)
	Delete(ctx context.Context, boardID, userID uuid.UUID) error
}

// memberRepositoryImpl is the GORM implementation of MemberRepository
type memberRepositoryImpl struct {
	db *gorm.DB
}

// NewMemberRepository creates a new instance of MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepositoryImpl{db: db}
}

// Create adds a membership row
func (r *memberRepositoryImpl) Create(ctx context.Context, member *domain.Member) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return err
	}
	return nil
}

// FindByBoardID lists a board's members, owner first, then by join time
func (r *memberRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]domain.Member, error) {
	var members []domain.Member
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("role DESC").
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindByBoardAndUser finds the membership row for a user on a board
func (r *memberRepositoryImpl) FindByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// Delete removes a user's membership from a board
func (r *memberRepositoryImpl) Delete(ctx context.Context, boardID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&domain.Member{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
