package events

import (
	"net/http"
	"time"

	"roombooking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the frontend host is fixed
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades clients onto the reservation update feed.
type WSHandler struct {
	hub        *Hub
	jwtService *jwt.Service
	log        *zap.Logger
}

func NewWSHandler(hub *Hub, jwtService *jwt.Service, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{hub: hub, jwtService: jwtService, log: log}
}

// HandleWebSocket serves GET /ws/events?token=JWT. The token travels as a
// query parameter because browsers cannot set headers on WebSocket dials.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required. Use ?token=YOUR_JWT_TOKEN"})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := h.hub.Register(userID, conn)
	h.log.Info("websocket connected", zap.Int64("user_id", userID))

	defer func() {
		h.hub.Unregister(userID, conn)
		h.log.Info("websocket disconnected", zap.Int64("user_id", userID))
	}()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	go h.pingLoop(cl)
	h.readLoop(conn)
}

func (h *WSHandler) pingLoop(cl *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := cl.ping(); err != nil {
			return
		}
	}
}

// readLoop drains the connection. The feed is one-way; client frames are
// discarded but the read keeps pong handling alive and detects closes.
func (h *WSHandler) readLoop(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}
