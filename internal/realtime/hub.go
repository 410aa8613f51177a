package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// Message is the envelope pushed to connected clients.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// client wraps one connection with a write lock; gorilla/websocket
// supports at most one concurrent writer per connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub is an explicitly-passed registry of websocket connections keyed by
// user ID. Emission is fire-and-forget: failures are logged and the dead
// connection dropped, never surfaced to the caller.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uint64]map[*client]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint64]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced by the CORS layer in front of the upgrade
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades an authenticated request and registers the connection
// until the peer disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Realtime] upgrade failed for user %d: %v", userID, err)
		return
	}

	c := &client{conn: conn}
	h.register(userID, c)
	defer h.unregister(userID, c)

	// Drain control frames; clients never send data messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// EmitToUser pushes an event to every connection of one user.
func (h *Hub) EmitToUser(userID uint64, event string, payload interface{}) {
	data, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		log.Printf("[Realtime] marshal %q failed: %v", event, err)
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(data); err != nil {
			log.Printf("[Realtime] emit %q to user %d failed: %v", event, userID, err)
			h.unregister(userID, c)
		}
	}
}

// EmitToUsers pushes an event to several users.
func (h *Hub) EmitToUsers(userIDs []uint64, event string, payload interface{}) {
	for _, id := range userIDs {
		h.EmitToUser(id, event, payload)
	}
}

func (h *Hub) register(userID uint64, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
}

func (h *Hub) unregister(userID uint64, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, userID)
		}
	}
	c.conn.Close()
}
