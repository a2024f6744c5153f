package realtime

import (
	"context"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"kanban-board-api/internal/metrics"
)

const (
	boardChannelPrefix = "kanban:board:"
	userChannelPrefix  = "kanban:user:"
)

// Hub tracks websocket sessions and routes events to them. Every
// session sits in its user's personal channel for its whole lifetime
// and in at most one board room at a time; joining a board implicitly
// leaves the previous one.
//
// With a redis client the hub publishes every event to redis and feeds
// local sessions from a single process-wide subscription, so instances
// behind a load balancer all deliver the same events. Without redis,
// events go straight to local sessions.
type Hub struct {
	rooms map[uuid.UUID]map[*Session]bool
	users map[uuid.UUID]map[*Session]bool
	mu    sync.RWMutex
	count int

	register   chan *Session
	unregister chan *Session

	rdb     *redis.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHub creates a hub. rdb and m may be nil.
func NewHub(rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Session]bool),
		users:      make(map[uuid.UUID]map[*Session]bool),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		rdb:        rdb,
		metrics:    m,
		logger:     logger,
	}
}

// Run processes session registration until ctx is cancelled. When redis
// is configured it also drives the subscription that feeds local
// sessions.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.consumeRedis(ctx)
	}

	for {
		select {
		case session := <-h.register:
			h.addSession(session)
		case session := <-h.unregister:
			h.removeSession(session)
		case <-ctx.Done():
			return
		}
	}
}

// BroadcastToBoard delivers an event to every session in the board's room
func (h *Hub) BroadcastToBoard(boardID uuid.UUID, event string, payload interface{}) {
	e := &Event{Type: event, BoardID: boardID, Payload: payload}
	data := e.Marshal()
	if data == nil {
		return
	}

	if h.metrics != nil {
		h.metrics.IncrementEventPublished(event)
	}

	if h.rdb != nil {
		h.publish(boardChannelPrefix+boardID.String(), data)
		return
	}
	h.deliverToBoard(boardID, data)
}

// SendToUser delivers an event to every session of a user
func (h *Hub) SendToUser(userID uuid.UUID, event string, payload interface{}) {
	e := &Event{Type: event, Payload: payload}
	data := e.Marshal()
	if data == nil {
		return
	}

	if h.metrics != nil {
		h.metrics.IncrementEventPublished(event)
	}

	if h.rdb != nil {
		h.publish(userChannelPrefix+userID.String(), data)
		return
	}
	h.deliverToUser(userID, data)
}

// JoinBoard puts the session into a board room, leaving its current one
func (h *Hub) JoinBoard(session *Session, boardID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveRoomLocked(session)
	if h.rooms[boardID] == nil {
		h.rooms[boardID] = make(map[*Session]bool)
	}
	h.rooms[boardID][session] = true
	session.boardID = boardID

	h.logger.Debug("Session joined board room",
		zap.String("board_id", boardID.String()),
		zap.String("user_id", session.userID.String()),
	)
}

// LeaveBoard removes the session from its current board room, if any
func (h *Hub) LeaveBoard(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveRoomLocked(session)
}

// ConnectionCount reports the number of registered sessions
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *Hub) addSession(session *Session) {
	h.mu.Lock()
	if h.users[session.userID] == nil {
		h.users[session.userID] = make(map[*Session]bool)
	}
	h.users[session.userID][session] = true
	h.count++
	count := h.count
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.SetWSConnections(count)
	}
	h.logger.Info("Session registered",
		zap.String("user_id", session.userID.String()),
		zap.Int("connections", count),
	)
}

func (h *Hub) removeSession(session *Session) {
	h.mu.Lock()
	if sessions, ok := h.users[session.userID]; ok && sessions[session] {
		delete(sessions, session)
		if len(sessions) == 0 {
			delete(h.users, session.userID)
		}
		h.leaveRoomLocked(session)
		close(session.send)
		h.count--
	}
	count := h.count
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.SetWSConnections(count)
	}
	h.logger.Info("Session unregistered",
		zap.String("user_id", session.userID.String()),
		zap.Int("connections", count),
	)
}

// leaveRoomLocked detaches the session from its board room. Caller
// holds h.mu.
func (h *Hub) leaveRoomLocked(session *Session) {
	if session.boardID == uuid.Nil {
		return
	}
	if room, ok := h.rooms[session.boardID]; ok {
		delete(room, session)
		if len(room) == 0 {
			delete(h.rooms, session.boardID)
		}
	}
	session.boardID = uuid.Nil
}

// deliverToBoard fans a payload out to a board room. Sessions with a
// full send buffer are skipped; the client catches up from the next
// board fetch.
func (h *Hub) deliverToBoard(boardID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for session := range h.rooms[boardID] {
		select {
		case session.send <- data:
		default:
			h.logger.Warn("Dropping event for slow session",
				zap.String("board_id", boardID.String()),
				zap.String("user_id", session.userID.String()),
			)
		}
	}
}

func (h *Hub) deliverToUser(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for session := range h.users[userID] {
		select {
		case session.send <- data:
		default:
			h.logger.Warn("Dropping event for slow session",
				zap.String("user_id", userID.String()),
			)
		}
	}
}

func (h *Hub) publish(channel string, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := h.rdb.Publish(ctx, channel, data).Err(); err != nil {
		h.logger.Warn("Failed to publish event to redis",
			zap.String("channel", channel),
			zap.Error(err),
		)
	}
}

// consumeRedis feeds locally connected sessions from the shared
// subscription
func (h *Hub) consumeRedis(ctx context.Context) {
	pubsub := h.rdb.PSubscribe(ctx, boardChannelPrefix+"*", userChannelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.dispatch(msg.Channel, []byte(msg.Payload))
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dispatch(channel string, data []byte) {
	switch {
	case strings.HasPrefix(channel, boardChannelPrefix):
		boardID, err := uuid.Parse(strings.TrimPrefix(channel, boardChannelPrefix))
		if err != nil {
			return
		}
		h.deliverToBoard(boardID, data)
	case strings.HasPrefix(channel, userChannelPrefix):
		userID, err := uuid.Parse(strings.TrimPrefix(channel, userChannelPrefix))
		if err != nil {
			return
		}
		h.deliverToUser(userID, data)
	}
}
