// Package events streams order events to websocket subscribers.
package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrderDeleted       = "order.deleted"
)

// Event is one notification for a user
type Event struct {
	Type    string    `json:"type"`
	UserID  string    `json:"user_id"`
	OrderID string    `json:"order_id"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	userID string
	admin  bool
	send   chan []byte
}

// Hub fans events out to connected websocket clients. Publish never blocks:
// a client whose buffer is full is disconnected.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub returns an empty Hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Publish delivers ev to the owning user's connections and to admin connections
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithField("error", err.Error()).Error("Failed to encode event")
		return
	}
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		if !c.admin && c.userID != ev.UserID {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range slow {
		h.remove(c)
	}
}

// Subscribers returns the number of connected clients
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve upgrades the request and streams the user's events until the peer goes away
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string, admin bool) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return // Upgrade already wrote the HTTP error
	}
	c := &client{userID: userID, admin: admin, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(conn, c)

	// Read until the peer closes; incoming messages are ignored
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
}

func (h *Hub) writePump(conn *websocket.Conn, c *client) {
	defer conn.Close()
	for data := range c.send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(c)
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}
