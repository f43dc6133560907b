package events

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/daksh151005/homesync-hub-go/internal/api"
)

// Event type identifiers pushed to dashboard clients.
const (
	TypeDeviceChanged   = "device.changed"
	TypeRoutineExecuted = "routine.executed"
	TypeScheduleFired   = "schedule.fired"
	TypeEnergyAlert     = "energy.alert"
)

// Event is a single dashboard push message.
type Event struct {
	Object string `json:"object"`
	Type   string `json:"type"`
	UserID string `json:"-"`
	Data   any    `json:"data,omitempty"`
	At     string `json:"at"`
}

type client struct {
	conn   *websocket.Conn
	userID string
	sendCh chan Event
}

// Hub fans registry-change events out to connected dashboard clients over
// WebSocket. Events are scoped: a client only receives events for its user.
type Hub struct {
	mu           sync.RWMutex
	clients      map[*client]struct{}
	pingInterval time.Duration
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[*client]struct{}),
		pingInterval: 30 * time.Second,
	}
}

// Broadcast queues an event for every connected client of the event's user.
// Slow clients are disconnected rather than blocking the caller.
func (h *Hub) Broadcast(userID, eventType string, data any) {
	event := Event{
		Object: "event",
		Type:   eventType,
		UserID: userID,
		Data:   data,
		At:     api.RFC3339Millis(time.Now()),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.sendCh <- event:
		default:
			go h.remove(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		close(c.sendCh)
	}
}

func (h *Hub) add(conn *websocket.Conn, userID string) *client {
	c := &client{
		conn:   conn,
		userID: userID,
		sendCh: make(chan Event, 16),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)

	return c
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	h.mu.Unlock()

	close(c.sendCh)
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.sendCh:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readLoop drains control frames; clients never send data messages.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			log.Printf("events: client disconnected: %v", err)
			h.remove(c)
			return
		}
	}
}
