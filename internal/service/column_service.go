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
	"kanban-board-api/internal/ordering"
	"kanban-board-api/internal/realtime"
	"kanban-board-api/internal/repository"
	"kanban-board-api/internal/response"
)

// ColumnService defines the interface for column business logic.
// All mutations are owner-gated; listing requires read access.
type ColumnService interface {
	List(ctx context.Context, userID, boardID uuid.UUID) ([]dto.ColumnResponse, error)
	Create(ctx context.Context, userID, boardID uuid.UUID, req *dto.CreateColumnRequest) (*dto.ColumnResponse, error)
	Update(ctx context.Context, userID, columnID uuid.UUID, req *dto.UpdateColumnRequest) (*dto.ColumnResponse, error)
	Reorder(ctx context.Context, userID, boardID uuid.UUID, req *dto.ReorderColumnsRequest) ([]dto.ColumnResponse, error)
	Delete(ctx context.Context, userID, columnID uuid.UUID) error
}

// columnServiceImpl implements ColumnService
type columnServiceImpl struct {
	columnRepo repository.ColumnRepository
	access     AccessService
	events     EventPublisher
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewColumnService creates a new instance of ColumnService
func NewColumnService(
	columnRepo repository.ColumnRepository,
	access AccessService,
	events EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) ColumnService {
	if events == nil {
		events = NewNoopPublisher()
	}
	return &columnServiceImpl{
		columnRepo: columnRepo,
		access:     access,
		events:     events,
		metrics:    m,
		logger:     logger,
	}
}

// List returns a board's columns in position order
func (s *columnServiceImpl) List(ctx context.Context, userID, boardID uuid.UUID) ([]dto.ColumnResponse, error) {
	if err := s.requireRead(ctx, boardID, userID); err != nil {
		return nil, err
	}
	columns, err := s.columnRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, s.wrap(err, "failed to list columns")
	}
	return dto.ToColumnResponses(columns), nil
}

// Create appends a column to the board and broadcasts it
func (s *columnServiceImpl) Create(ctx context.Context, userID, boardID uuid.UUID, req *dto.CreateColumnRequest) (*dto.ColumnResponse, error) {
	if err := s.requireOwner(ctx, boardID, userID); err != nil {
		return nil, err
	}

	column := &domain.Column{
		BoardID: boardID,
		Name:    req.Name,
	}
	if err := s.columnRepo.Create(ctx, column); err != nil {
		return nil, s.wrap(err, "failed to create column")
	}

	resp := dto.ToColumnResponse(column)
	s.events.BroadcastToBoard(boardID, realtime.EventColumnCreated, resp)
	return &resp, nil
}

// Update renames a column and/or moves it to a new index. A position
// move renumbers the whole board's column order through the reorder
// path so positions stay contiguous.
func (s *columnServiceImpl) Update(ctx context.Context, userID, columnID uuid.UUID, req *dto.UpdateColumnRequest) (*dto.ColumnResponse, error) {
	column, err := s.columnRepo.FindByID(ctx, columnID)
	if err != nil {
		return nil, s.wrap(err, "failed to load column")
	}
	if err := s.requireOwner(ctx, column.BoardID, userID); err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != column.Name {
		if err := s.columnRepo.Rename(ctx, columnID, *req.Name); err != nil {
			return nil, s.wrap(err, "failed to rename column")
		}
		column.Name = *req.Name
	}

	if req.Position != nil {
		columns, err := s.columnRepo.FindByBoardID(ctx, column.BoardID)
		if err != nil {
			return nil, s.wrap(err, "failed to load columns")
		}
		ids := columnIDs(columns)
		from := ordering.IndexOf(ids, columnID)
		newOrder, changed := ordering.MoveWithin(ids, from, *req.Position)
		if changed {
			if err := s.columnRepo.Reorder(ctx, column.BoardID, newOrder); err != nil {
				if errors.Is(err, repository.ErrColumnSetMismatch) {
					return nil, response.NewAppError(response.ErrCodeConflict,
						"board columns changed, retry the move", "")
				}
				return nil, s.wrap(err, "failed to move column")
			}
		}
		column.Position = ordering.IndexOf(newOrder, columnID)
	}

	resp := dto.ToColumnResponse(column)
	s.events.BroadcastToBoard(column.BoardID, realtime.EventColumnUpdated, resp)
	return &resp, nil
}

// Reorder replaces the board's column order with the submitted one
func (s *columnServiceImpl) Reorder(ctx context.Context, userID, boardID uuid.UUID, req *dto.ReorderColumnsRequest) ([]dto.ColumnResponse, error) {
	if err := s.requireOwner(ctx, boardID, userID); err != nil {
		return nil, err
	}

	if err := s.columnRepo.Reorder(ctx, boardID, req.ColumnIDs); err != nil {
		if errors.Is(err, repository.ErrColumnSetMismatch) {
			return nil, response.NewAppError(response.ErrCodeValidation,
				"column ids must be exactly the board's current columns", "")
		}
		return nil, s.wrap(err, "failed to reorder columns")
	}

	if s.metrics != nil {
		s.metrics.IncrementColumnsReordered()
	}

	columns, err := s.columnRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, s.wrap(err, "failed to list columns")
	}

	s.events.BroadcastToBoard(boardID, realtime.EventColumnsReordered, map[string]interface{}{
		"columnIds": columnIDs(columns),
	})
	return dto.ToColumnResponses(columns), nil
}

// Delete removes an empty column
func (s *columnServiceImpl) Delete(ctx context.Context, userID, columnID uuid.UUID) error {
	column, err := s.columnRepo.FindByID(ctx, columnID)
	if err != nil {
		return s.wrap(err, "failed to load column")
	}
	if err := s.requireOwner(ctx, column.BoardID, userID); err != nil {
		return err
	}

	if err := s.columnRepo.Delete(ctx, columnID); err != nil {
		if errors.Is(err, repository.ErrColumnNotEmpty) {
			return response.NewAppError(response.ErrCodeConflict,
				"column still contains tasks", "move or delete its tasks first")
		}
		return s.wrap(err, "failed to delete column")
	}

	s.events.BroadcastToBoard(column.BoardID, realtime.EventColumnDeleted, map[string]interface{}{
		"id": columnID,
	})
	return nil
}

func (s *columnServiceImpl) requireRead(ctx context.Context, boardID, userID uuid.UUID) error {
	ok, err := s.access.CanRead(ctx, boardID, userID)
	if err != nil {
		return s.wrap(err, "failed to check board access")
	}
	if !ok {
		return response.NewAppError(response.ErrCodeNotFound, "board not found", "")
	}
	return nil
}

func (s *columnServiceImpl) requireOwner(ctx context.Context, boardID, userID uuid.UUID) error {
	if err := s.requireRead(ctx, boardID, userID); err != nil {
		return err
	}
	owner, err := s.access.IsOwner(ctx, boardID, userID)
	if err != nil {
		return s.wrap(err, "failed to check board ownership")
	}
	if !owner {
		return response.NewAppError(response.ErrCodeForbidden, "only the board owner may manage columns", "")
	}
	return nil
}

func (s *columnServiceImpl) wrap(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeNotFound, "column not found", "")
	}
	s.logger.Error(msg, zap.Error(err))
	return response.NewAppError(response.ErrCodeInternal, msg, err.Error())
}

// columnIDs extracts the id order from a position-ordered column slice
func columnIDs(columns []domain.Column) []uuid.UUID {
	ids := make([]uuid.UUID, len(columns))
	for i := range columns {
		ids[i] = columns[i].ID
	}
	return ids
}
