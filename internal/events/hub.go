// Package events streams tracking snapshots to websocket clients.
package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/gazectl/internal/gaze"
	"github.com/ayusman/gazectl/internal/tracking"
)

const (
	// clientBuffer is the number of messages queued per client before new
	// messages are dropped for that client.
	clientBuffer = 32
	writeTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message is one event sent to clients.
type Message struct {
	Type     string             `json:"type"`
	Snapshot *tracking.Snapshot `json:"snapshot,omitempty"`
	Action   *gaze.Action       `json:"action,omitempty"`
	Enabled  *bool              `json:"enabled,omitempty"`
}

// Message types.
const (
	TypeFrame  = "frame"
	TypeAction = "action"
	TypeState  = "state"
)

// Hub broadcasts loop events to connected websocket clients. It implements
// tracking.Observer and never blocks the loop: slow clients lose messages.
type Hub struct {
	tracking.NopObserver

	logger  zerolog.Logger
	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a Hub with no clients.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:  logger.With().Str("component", "events").Logger(),
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.write(c)

	// Read until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
}

func (h *Hub) write(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues m for every client.
func (h *Hub) Broadcast(m Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}

	data, err := json.Marshal(m)
	if err != nil {
		// NaN ratios of degenerate eye boundaries do not encode.
		h.logger.Debug().Err(err).Msg("encode event")
		return
	}
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) ObserveFrame(s tracking.Snapshot) {
	h.Broadcast(Message{Type: TypeFrame, Snapshot: &s})
}

func (h *Hub) ObserveAction(a gaze.Action, err error) {
	if err != nil {
		return
	}
	h.Broadcast(Message{Type: TypeAction, Action: &a})
}

func (h *Hub) ObserveState(enabled bool) {
	h.Broadcast(Message{Type: TypeState, Enabled: &enabled})
}
