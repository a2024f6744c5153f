package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	publishTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// TokenValidator resolves an access token to a user identity
type TokenValidator interface {
	Validate(token string) (uuid.UUID, error)
}

// AccessChecker answers whether a user may read a board. Join requests
// for boards the user cannot see are refused silently.
type AccessChecker interface {
	CanRead(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
}

// Session is one websocket connection of one authenticated user
type Session struct {
	conn    *websocket.Conn
	send    chan []byte
	userID  uuid.UUID
	boardID uuid.UUID
	hub     *Hub
}

// WSHandler upgrades HTTP requests into hub sessions
type WSHandler struct {
	hub    *Hub
	tokens TokenValidator
	access AccessChecker
	logger *zap.Logger
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *Hub, tokens TokenValidator, access AccessChecker, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		access: access,
		logger: logger,
	}
}

// HandleWebSocket godoc
// @Summary      Realtime event stream
// @Description  Upgrades to a websocket delivering board and personal events
// @Tags         websocket
// @Param        token query string true "JWT access token"
// @Success      101 {string} string "Switching Protocols"
// @Failure      401 {object} map[string]string
// @Router       /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	userID, err := h.tokens.Validate(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	session := &Session{
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		hub:    h.hub,
	}

	h.hub.register <- session

	go h.writePump(session)
	go h.readPump(session)
}

// readPump consumes room join/leave requests until the connection dies
func (h *WSHandler) readPump(session *Session) {
	defer func() {
		h.hub.unregister <- session
		session.conn.Close()
	}()

	session.conn.SetReadLimit(maxMessageSize)
	session.conn.SetReadDeadline(time.Now().Add(pongWait))
	session.conn.SetPongHandler(func(string) error {
		session.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := session.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("WebSocket error", zap.Error(err))
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.logger.Warn("Failed to parse client message", zap.Error(err))
			continue
		}
		h.handleMessage(session, &msg)
	}
}

func (h *WSHandler) writePump(session *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		session.conn.Close()
	}()

	for {
		select {
		case message, ok := <-session.send:
			session.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				session.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := session.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			session.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := session.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) handleMessage(session *Session, msg *inboundMessage) {
	switch msg.Type {
	case MessageBoardJoin:
		if msg.BoardID == uuid.Nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ok, err := h.access.CanRead(ctx, msg.BoardID, session.userID)
		if err != nil {
			h.logger.Warn("Board access check failed",
				zap.String("board_id", msg.BoardID.String()),
				zap.Error(err))
			return
		}
		if !ok {
			h.logger.Debug("Refused board room join",
				zap.String("board_id", msg.BoardID.String()),
				zap.String("user_id", session.userID.String()))
			return
		}
		h.hub.JoinBoard(session, msg.BoardID)

	case MessageBoardLeave:
		h.hub.LeaveBoard(session)

	default:
		h.logger.Warn("Unknown message type", zap.String("type", msg.Type))
	}
}
