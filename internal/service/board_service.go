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
	"kanban-board-api/internal/repository"
	"kanban-board-api/internal/response"
)

// BoardService defines the interface for board business logic
type BoardService interface {
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error)
	List(ctx context.Context, userID uuid.UUID) ([]dto.BoardResponse, error)
	Get(ctx context.Context, userID, boardID uuid.UUID) (*dto.BoardDetailResponse, error)
	GetRole(ctx context.Context, userID, boardID uuid.UUID) (*dto.BoardRoleResponse, error)
	Delete(ctx context.Context, userID, boardID uuid.UUID) error
}

// boardServiceImpl implements BoardService
type boardServiceImpl struct {
	boardRepo  repository.BoardRepository
	columnRepo repository.ColumnRepository
	taskRepo   repository.TaskRepository
	access     AccessService
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewBoardService creates a new instance of BoardService
func NewBoardService(
	boardRepo repository.BoardRepository,
	columnRepo repository.ColumnRepository,
	taskRepo repository.TaskRepository,
	access AccessService,
	m *metrics.Metrics,
	logger *zap.Logger,
) BoardService {
	return &boardServiceImpl{
		boardRepo:  boardRepo,
		columnRepo: columnRepo,
		taskRepo:   taskRepo,
		access:     access,
		metrics:    m,
		logger:     logger,
	}
}

// Create creates a board owned by the caller
func (s *boardServiceImpl) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	board := &domain.Board{
		Name:    req.Name,
		OwnerID: userID,
	}
	if err := s.boardRepo.Create(ctx, board); err != nil {
		s.logger.Error("Failed to create board", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to create board", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementBoardCreated()
	}

	resp := dto.ToBoardResponse(board)
	resp.Role = string(domain.MemberRoleOwner)
	return &resp, nil
}

// List returns every board the caller owns or is a member of
func (s *boardServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]dto.BoardResponse, error) {
	boards, err := s.boardRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list boards", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "failed to list boards", err.Error())
	}

	out := make([]dto.BoardResponse, 0, len(boards))
	for i := range boards {
		resp := dto.ToBoardResponse(&boards[i])
		resp.Role = string(domain.MemberRoleMember)
		if boards[i].OwnerID == userID {
			resp.Role = string(domain.MemberRoleOwner)
		}
		out = append(out, resp)
	}
	return out, nil
}

// Get returns a board with its ordered columns and tasks
func (s *boardServiceImpl) Get(ctx context.Context, userID, boardID uuid.UUID) (*dto.BoardDetailResponse, error) {
	if err := s.requireRead(ctx, boardID, userID); err != nil {
		return nil, err
	}

	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return nil, s.wrap(err, "failed to load board")
	}
	columns, err := s.columnRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, s.wrap(err, "failed to load columns")
	}
	tasks, err := s.taskRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, s.wrap(err, "failed to load tasks")
	}

	detail := &dto.BoardDetailResponse{
		BoardResponse: dto.ToBoardResponse(board),
		Columns:       dto.ToColumnResponses(columns),
		Tasks:         dto.ToTaskResponses(tasks),
	}
	detail.Role = string(domain.MemberRoleMember)
	if board.OwnerID == userID {
		detail.Role = string(domain.MemberRoleOwner)
	}
	return detail, nil
}

// GetRole reports the caller's role on the board
func (s *boardServiceImpl) GetRole(ctx context.Context, userID, boardID uuid.UUID) (*dto.BoardRoleResponse, error) {
	role, err := s.access.RoleOf(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "board not found", "")
		}
		return nil, s.wrap(err, "failed to resolve role")
	}
	return &dto.BoardRoleResponse{BoardID: boardID, Role: string(role)}, nil
}

// Delete removes a board and everything under it. Owner only.
func (s *boardServiceImpl) Delete(ctx context.Context, userID, boardID uuid.UUID) error {
	if err := s.requireOwner(ctx, boardID, userID); err != nil {
		return err
	}

	if err := s.boardRepo.Delete(ctx, boardID); err != nil {
		return s.wrap(err, "failed to delete board")
	}

	s.logger.Info("Board deleted",
		zap.String("board_id", boardID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// requireRead converts an access denial into the not-found the caller sees
func (s *boardServiceImpl) requireRead(ctx context.Context, boardID, userID uuid.UUID) error {
	ok, err := s.access.CanRead(ctx, boardID, userID)
	if err != nil {
		return s.wrap(err, "failed to check board access")
	}
	if !ok {
		return response.NewAppError(response.ErrCodeNotFound, "board not found", "")
	}
	return nil
}

// requireOwner enforces owner-gated operations. A non-member sees
// not-found, a member sees forbidden.
func (s *boardServiceImpl) requireOwner(ctx context.Context, boardID, userID uuid.UUID) error {
	if err := s.requireRead(ctx, boardID, userID); err != nil {
		return err
	}
	owner, err := s.access.IsOwner(ctx, boardID, userID)
	if err != nil {
		return s.wrap(err, "failed to check board ownership")
	}
	if !owner {
		return response.NewAppError(response.ErrCodeForbidden, "only the board owner may do this", "")
	}
	return nil
}

// wrap maps storage errors onto API errors
func (s *boardServiceImpl) wrap(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeNotFound, "board not found", "")
	}
	s.logger.Error(msg, zap.Error(err))
	return response.NewAppError(response.ErrCodeInternal, msg, err.Error())
}
