package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-board-api/internal/domain"
	"kanban-board-api/internal/dto"
	"kanban-board-api/internal/metrics"
	"kanban-board-api/internal/realtime"
	"kanban-board-api/internal/repository"
	"kanban-board-api/internal/response"
)

// InvitationService defines the interface for invitation business logic
type InvitationService interface {
	// Invite creates a pending invitation. Owner only.
	Invite(ctx context.Context, userID, boardID uuid.UUID, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error)
	// ListMine lists the caller's open invitations.
	ListMine(ctx context.Context, userID uuid.UUID) ([]dto.InvitationResponse, error)
	// Respond accepts or declines one of the caller's pending invitations.
	Respond(ctx context.Context, userID, invitationID uuid.UUID, accept bool) (*dto.InvitationResponse, error)
}

// invitationServiceImpl implements InvitationService
type invitationServiceImpl struct {
	invitationRepo repository.InvitationRepository
	memberRepo     repository.MemberRepository
	access         AccessService
	events         EventPublisher
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewInvitationService creates a new instance of InvitationService
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	memberRepo repository.MemberRepository,
	access AccessService,
	events EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) InvitationService {
	if events == nil {
		events = NewNoopPublisher()
	}
	return &invitationServiceImpl{
		invitationRepo: invitationRepo,
		memberRepo:     memberRepo,
		access:         access,
		events:         events,
		metrics:        m,
		logger:         logger,
	}
}

// Invite creates a pending invitation for a user. At most one pending
// invitation may exist per (board, user); duplicates are rejected, not
// merged. Inviting an existing member is rejected as well.
func (s *invitationServiceImpl) Invite(ctx context.Context, userID, boardID uuid.UUID, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error) {
	ok, err := s.access.CanRead(ctx, boardID, userID)
	if err != nil {
		return nil, s.internal(err, "failed to check board access")
	}
	if !ok {
		return nil, response.NewAppError(response.ErrCodeNotFound, "board not found", "")
	}
	owner, err := s.access.IsOwner(ctx, boardID, userID)
	if err != nil {
		return nil, s.internal(err, "failed to check board ownership")
	}
	if !owner {
		return nil, response.NewAppError(response.ErrCodeForbidden, "only the board owner may invite users", "")
	}

	if req.UserID == userID {
		return nil, response.NewAppError(response.ErrCodeValidation, "cannot invite yourself", "")
	}

	if _, err := s.memberRepo.FindByBoardAndUser(ctx, boardID, req.UserID); err == nil {
		return nil, response.NewAppError(response.ErrCodeConflict, "user is already a member", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.internal(err, "failed to check membership")
	}

	if _, err := s.invitationRepo.FindPendingByBoardAndUser(ctx, boardID, req.UserID); err == nil {
		return nil, response.NewAppError(response.ErrCodeConflict, "an invitation is already pending for this user", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.internal(err, "failed to check pending invitations")
	}

	invitation := &domain.Invitation{
		BoardID:       boardID,
		InvitedUserID: req.UserID,
		InvitedBy:     userID,
		Status:        domain.InvitationPending,
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, s.internal(err, "failed to create invitation")
	}

	if s.metrics != nil {
		s.metrics.IncrementInvitationCreated()
	}

	resp := dto.ToInvitationResponse(invitation)
	s.events.SendToUser(req.UserID, realtime.EventInviteCreated, resp)
	return &resp, nil
}

// ListMine lists the caller's pending invitations, newest first
func (s *invitationServiceImpl) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.InvitationResponse, error) {
	invitations, err := s.invitationRepo.FindPendingByUser(ctx, userID)
	if err != nil {
		return nil, s.internal(err, "failed to list invitations")
	}
	return dto.ToInvitationResponses(invitations), nil
}

// Respond settles a pending invitation. Only the invited user may
// respond; anyone else sees not-found. A responded invitation is
// terminal, so a second response reports a conflict. The board room is
// notified of both outcomes so open member lists can refresh.
func (s *invitationServiceImpl) Respond(ctx context.Context, userID, invitationID uuid.UUID, accept bool) (*dto.InvitationResponse, error) {
	invitation, err := s.invitationRepo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "invitation not found", "")
		}
		return nil, s.internal(err, "failed to load invitation")
	}
	if invitation.InvitedUserID != userID {
		return nil, response.NewAppError(response.ErrCodeNotFound, "invitation not found", "")
	}

	settled, err := s.invitationRepo.Respond(ctx, invitationID, accept)
	if err != nil {
		if errors.Is(err, repository.ErrInvitationNotPending) {
			return nil, response.NewAppError(response.ErrCodeConflict, "invitation was already responded to", "")
		}
		return nil, s.internal(err, "failed to respond to invitation")
	}

	resp := dto.ToInvitationResponse(settled)
	resp.BoardName = invitation.Board.Name

	resolution := "declined"
	if accept {
		resolution = "joined"
	}
	s.events.SendToUser(userID, realtime.EventInviteResponded, resp)
	s.events.BroadcastToBoard(invitation.BoardID, realtime.EventMemberChanged, map[string]interface{}{
		"boardId": invitation.BoardID,
		"userId":  userID,
		"action":  resolution,
	})
	return &resp, nil
}

func (s *invitationServiceImpl) internal(err error, msg string) error {
	s.logger.Error(msg, zap.Error(err))
	return response.NewAppError(response.ErrCodeInternal, msg, err.Error())
}
