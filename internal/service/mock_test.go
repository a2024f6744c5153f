package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kanban-board-api/internal/domain"
	"kanban-board-api/internal/response"
)

// mockBoardRepository is a mock implementation of repository.BoardRepository
type mockBoardRepository struct {
	mock.Mock
}

func (m *mockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *mockBoardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Board), args.Error(1)
}

func (m *mockBoardRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Board, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Board), args.Error(1)
}

func (m *mockBoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockColumnRepository is a mock implementation of repository.ColumnRepository
type mockColumnRepository struct {
	mock.Mock
}

func (m *mockColumnRepository) Create(ctx context.Context, column *domain.Column) error {
	args := m.Called(ctx, column)
	return args.Error(0)
}

func (m *mockColumnRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Column), args.Error(1)
}

func (m *mockColumnRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]domain.Column, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Column), args.Error(1)
}

func (m *mockColumnRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *mockColumnRepository) Reorder(ctx context.Context, boardID uuid.UUID, orderedIDs []uuid.UUID) error {
	args := m.Called(ctx, boardID, orderedIDs)
	return args.Error(0)
}

func (m *mockColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockTaskRepository is a mock implementation of repository.TaskRepository
type mockTaskRepository struct {
	mock.Mock
}

func (m *mockTaskRepository) Create(ctx context.Context, task *domain.Task, position *int) error {
	args := m.Called(ctx, task, position)
	return args.Error(0)
}

func (m *mockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockTaskRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]domain.Task, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *mockTaskRepository) FindByColumnID(ctx context.Context, columnID uuid.UUID) ([]domain.Task, error) {
	args := m.Called(ctx, columnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *mockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskRepository) Move(ctx context.Context, id uuid.UUID, targetColumnID *uuid.UUID, targetIndex *int) (*domain.Task, error) {
	args := m.Called(ctx, id, targetColumnID, targetIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockMemberRepository is a mock implementation of repository.MemberRepository
type mockMemberRepository struct {
	mock.Mock
}

func (m *mockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *mockMemberRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]domain.Member, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *mockMemberRepository) FindByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, boardID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepository) Delete(ctx context.Context, boardID, userID uuid.UUID) error {
	args := m.Called(ctx, boardID, userID)
	return args.Error(0)
}

// mockInvitationRepository is a mock implementation of repository.InvitationRepository
type mockInvitationRepository struct {
	mock.Mock
}

func (m *mockInvitationRepository) Create(ctx context.Context, invitation *domain.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *mockInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *mockInvitationRepository) FindPendingByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.Invitation, error) {
	args := m.Called(ctx, boardID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *mockInvitationRepository) FindPendingByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invitation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invitation), args.Error(1)
}

func (m *mockInvitationRepository) Respond(ctx context.Context, id uuid.UUID, accept bool) (*domain.Invitation, error) {
	args := m.Called(ctx, id, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *mockInvitationRepository) DeleteRespondedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// mockAccessService is a mock implementation of AccessService
type mockAccessService struct {
	mock.Mock
}

func (m *mockAccessService) CanRead(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, boardID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccessService) IsOwner(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, boardID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccessService) RoleOf(ctx context.Context, boardID, userID uuid.UUID) (domain.MemberRole, error) {
	args := m.Called(ctx, boardID, userID)
	return args.Get(0).(domain.MemberRole), args.Error(1)
}

// publishedEvent records one call to the recording publisher
type publishedEvent struct {
	boardID uuid.UUID
	userID  uuid.UUID
	event   string
	payload interface{}
}

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	mu         sync.Mutex
	broadcasts []publishedEvent
	directs    []publishedEvent
}

func (p *recordingPublisher) BroadcastToBoard(boardID uuid.UUID, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcasts = append(p.broadcasts, publishedEvent{boardID: boardID, event: event, payload: payload})
}

func (p *recordingPublisher) SendToUser(userID uuid.UUID, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.directs = append(p.directs, publishedEvent{userID: userID, event: event, payload: payload})
}

func (p *recordingPublisher) broadcastEvents() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.broadcasts))
	for i, e := range p.broadcasts {
		out[i] = e.event
	}
	return out
}

func (p *recordingPublisher) directEvents() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.directs))
	for i, e := range p.directs {
		out[i] = e.event
	}
	return out
}

// requireAppError asserts that err is an AppError carrying the given code
func requireAppError(t *testing.T, err error, code string) *response.AppError {
	t.Helper()

	require.Error(t, err)
	appErr, ok := err.(*response.AppError)
	require.True(t, ok, "expected *response.AppError, got %T", err)
	require.Equal(t, code, appErr.Code)
	return appErr
}
