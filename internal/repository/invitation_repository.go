package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanban-board-api/internal/domain"
)

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)
	FindPendingByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.Invitation, error)
	FindPendingByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invitation, error)
	Respond(ctx context.Context, id uuid.UUID, accept bool) (*domain.Invitation, error)
	DeleteRespondedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// invitationRepositoryImpl is the GORM implementation of InvitationRepository
type invitationRepositoryImpl struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new instance of InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

// Create creates a new invitation
func (r *invitationRepositoryImpl) Create(ctx context.Context, invitation *domain.Invitation) error {
	if err := r.db.WithContext(ctx).Create(invitation).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds an invitation by its ID
func (r *invitationRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	var invitation domain.Invitation
	if err := r.db.WithContext(ctx).
		Preload("Board").
		First(&invitation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindPendingByBoardAndUser finds the pending invitation for a user on a board
func (r *invitationRepositoryImpl) FindPendingByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.Invitation, error) {
	var invitation domain.Invitation
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND invited_user_id = ? AND status = ?", boardID, userID, domain.InvitationPending).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindPendingByUser lists a user's open invitations, newest first
func (r *invitationRepositoryImpl) FindPendingByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	if err := r.db.WithContext(ctx).
		Preload("Board").
		Where("invited_user_id = ? AND status = ?", userID, domain.InvitationPending).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// Respond settles a pending invitation. The status flip is guarded on the
// pending state so concurrent responses cannot both win; accepting also
// materializes the membership in the same transaction.
func (r *invitationRepositoryImpl) Respond(ctx context.Context, id uuid.UUID, accept bool) (*domain.Invitation, error) {
	var invitation domain.Invitation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invitation, "id = ?", id).Error; err != nil {
			return err
		}

		status := domain.InvitationDeclined
		if accept {
			status = domain.InvitationAccepted
		}
		now := time.Now().UTC()

		result := tx.Model(&domain.Invitation{}).
			Where("id = ? AND status = ?", id, domain.InvitationPending).
			Updates(map[string]interface{}{
				"status":       status,
				"responded_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvitationNotPending
		}

		invitation.Status = status
		invitation.RespondedAt = &now

		if !accept {
			return nil
		}

		// An accepted invite for someone who joined through another
		// path must not fail on the membership unique index.
		var existing int64
		if err := tx.Model(&domain.Member{}).
			Where("board_id = ? AND user_id = ?", invitation.BoardID, invitation.InvitedUserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		member := domain.Member{
			BoardID:  invitation.BoardID,
			UserID:   invitation.InvitedUserID,
			Role:     domain.MemberRoleMember,
			JoinedAt: now,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// DeleteRespondedBefore purges settled invitations older than the cutoff
func (r *invitationRepositoryImpl) DeleteRespondedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status IN ? AND responded_at < ?",
			[]domain.InvitationStatus{domain.InvitationAccepted, domain.InvitationDeclined}, cutoff).
		Delete(&domain.Invitation{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
