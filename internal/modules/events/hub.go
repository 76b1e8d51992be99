package events

import (
	"sync"
	"time"

	"roombooking/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message is the wire format pushed to connected clients.
type Message struct {
	Type        string              `json:"type"`
	Reservation *domain.Reservation `json:"reservation,omitempty"`
	SentAt      time.Time           `json:"sent_at"`
}

// client serializes writes to one connection. gorilla/websocket allows at
// most one concurrent writer, and both broadcasts and pings write here.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// Hub tracks one WebSocket connection per user and broadcasts reservation
// updates to everyone connected. It implements the reservation module's
// EventPublisher.
type Hub struct {
	connections map[int64]*client
	mutex       sync.RWMutex
	log         *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		connections: make(map[int64]*client),
		log:         log,
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) *client {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[userID]; exists && old != nil {
		_ = old.conn.Close()
	}

	cl := &client{conn: conn}
	h.connections[userID] = cl
	return cl
}

// Unregister removes the user's entry only while it still holds conn. A
// handler whose connection was replaced on reconnect must not evict the
// fresh one.
func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	cl, exists := h.connections[userID]
	if !exists || cl == nil || cl.conn != conn {
		return
	}
	_ = cl.conn.Close()
	delete(h.connections, userID)
}

// PublishReservationUpdate pushes the reservation's current state to every
// connected client. Dead connections are dropped on write failure.
func (h *Hub) PublishReservationUpdate(res *domain.Reservation) {
	msg := Message{
		Type:        "reservation_update",
		Reservation: res,
		SentAt:      time.Now(),
	}

	h.mutex.RLock()
	targets := make(map[int64]*client, len(h.connections))
	for userID, cl := range h.connections {
		targets[userID] = cl
	}
	h.mutex.RUnlock()

	for userID, cl := range targets {
		if err := cl.writeJSON(msg); err != nil {
			h.log.Debug("dropping dead websocket",
				zap.Int64("user_id", userID),
				zap.Error(err))
			h.Unregister(userID, cl.conn)
		}
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, cl := range h.connections {
		if cl != nil {
			_ = cl.conn.Close()
		}
		delete(h.connections, userID)
	}
}
