package service

import (
	"context"
	"encoding/json"
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

// TaskService defines the interface for task business logic.
// Any board member may create, edit, move, and delete tasks.
type TaskService interface {
	List(ctx context.Context, userID, boardID uuid.UUID) ([]dto.TaskResponse, error)
	Create(ctx context.Context, userID, boardID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
}

// taskServiceImpl implements TaskService
type taskServiceImpl struct {
	taskRepo   repository.TaskRepository
	columnRepo repository.ColumnRepository
	access     AccessService
	events     EventPublisher
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	columnRepo repository.ColumnRepository,
	access AccessService,
	events EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) TaskService {
	if events == nil {
		events = NewNoopPublisher()
	}
	return &taskServiceImpl{
		taskRepo:   taskRepo,
		columnRepo: columnRepo,
		access:     access,
		events:     events,
		metrics:    m,
		logger:     logger,
	}
}

// List returns every task on the board, ordered within each column
func (s *taskServiceImpl) List(ctx context.Context, userID, boardID uuid.UUID) ([]dto.TaskResponse, error) {
	if err := s.requireRead(ctx, boardID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, s.wrap(err, "failed to list tasks")
	}
	return dto.ToTaskResponses(tasks), nil
}

// Create inserts a task into a column of the board and broadcasts it
func (s *taskServiceImpl) Create(ctx context.Context, userID, boardID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if err := s.requireRead(ctx, boardID, userID); err != nil {
		return nil, err
	}

	column, err := s.columnRepo.FindByID(ctx, req.ColumnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "column not found", "")
		}
		return nil, s.wrap(err, "failed to load column")
	}
	if column.BoardID != boardID {
		return nil, response.NewAppError(response.ErrCodeValidation,
			"column does not belong to this board", "")
	}

	labels, err := marshalLabels(req.Labels)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "invalid labels", err.Error())
	}

	task := &domain.Task{
		BoardID:     boardID,
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Labels:      labels,
	}
	if err := s.taskRepo.Create(ctx, task, req.Position); err != nil {
		return nil, s.wrap(err, "failed to create task")
	}

	if s.metrics != nil {
		s.metrics.IncrementTaskCreated()
	}

	resp := dto.ToTaskResponse(task)
	s.events.BroadcastToBoard(boardID, realtime.EventTaskCreated, resp)
	return &resp, nil
}

// Update edits task content and/or moves the task. The move runs first:
// it carries the rejectable cases, and a rejected request must not leave
// a committed content change behind. The broadcast carries the resulting
// task so late clients converge on it.
func (s *taskServiceImpl) Update(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, s.wrap(err, "failed to load task")
	}
	if err := s.requireRead(ctx, task.BoardID, userID); err != nil {
		return nil, err
	}

	var labels []byte
	if req.Labels != nil {
		labels, err = marshalLabels(*req.Labels)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeValidation, "invalid labels", err.Error())
		}
	}

	if req.HasMove() {
		moved, err := s.taskRepo.Move(ctx, taskID, req.ColumnID, req.Position)
		if err != nil {
			if errors.Is(err, repository.ErrColumnNotInBoard) {
				return nil, response.NewAppError(response.ErrCodeConflict,
					"target column belongs to a different board", "")
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "column not found", "")
			}
			return nil, s.wrap(err, "failed to move task")
		}
		task.ColumnID = moved.ColumnID
		task.Position = moved.Position

		if s.metrics != nil {
			s.metrics.IncrementTaskMoved()
		}
	}

	if req.Title != nil || req.Description != nil || req.Labels != nil {
		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Labels != nil {
			task.Labels = labels
		}
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return nil, s.wrap(err, "failed to update task")
		}
	}

	resp := dto.ToTaskResponse(task)
	s.events.BroadcastToBoard(task.BoardID, realtime.EventTaskUpdated, resp)
	return &resp, nil
}

// Delete removes a task and broadcasts the removal
func (s *taskServiceImpl) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return s.wrap(err, "failed to load task")
	}
	if err := s.requireRead(ctx, task.BoardID, userID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return s.wrap(err, "failed to delete task")
	}

	s.events.BroadcastToBoard(task.BoardID, realtime.EventTaskDeleted, map[string]interface{}{
		"id":       taskID,
		"columnId": task.ColumnID,
	})
	return nil
}

func (s *taskServiceImpl) requireRead(ctx context.Context, boardID, userID uuid.UUID) error {
	ok, err := s.access.CanRead(ctx, boardID, userID)
	if err != nil {
		return s.wrap(err, "failed to check board access")
	}
	if !ok {
		return response.NewAppError(response.ErrCodeNotFound, "board not found", "")
	}
	return nil
}

func (s *taskServiceImpl) wrap(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeNotFound, "task not found", "")
	}
	s.logger.Error(msg, zap.Error(err))
	return response.NewAppError(response.ErrCodeInternal, msg, err.Error())
}

// marshalLabels encodes the label list for jsonb storage. A nil list
// stores as an empty array so reads never see SQL NULL.
func marshalLabels(labels []string) ([]byte, error) {
	if labels == nil {
		labels = []string{}
	}
	return json.Marshal(labels)
}
