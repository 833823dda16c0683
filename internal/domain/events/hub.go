package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 32
)

// Event is pushed to every client watching a registration session.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	Payload   any       `json:"payload,omitempty"`
	At        time.Time `json:"at"`
}

type connection struct {
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

// Hub fans session events out to websocket clients. A session may be open in
// several tabs, so each session id maps to a set of connections.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*connection]struct{}
	log      *zap.Logger
	closed   bool
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		sessions: make(map[string]map[*connection]struct{}),
		log:      log,
	}
}

// Publish queues an event for the session's clients. Clients whose buffer is
// full are skipped.
func (h *Hub) Publish(sessionID, eventType string, payload any) {
	data, err := json.Marshal(Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		At:        time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("marshal session event", zap.String("type", eventType), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.sessions[sessionID] {
		select {
		case c.send <- data:
		default:
			h.log.Debug("session event dropped for slow client", zap.String("session_id", sessionID), zap.String("type", eventType))
		}
	}
}

// Subscribers returns how many clients watch sessionID.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// ServeWS registers conn for sessionID and blocks until the client leaves.
func (h *Hub) ServeWS(conn *websocket.Conn, sessionID string) {
	c := &connection{
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}
	if !h.register(c) {
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, conns := range h.sessions {
		for c := range conns {
			close(c.send)
		}
		delete(h.sessions, id)
	}
}

func (h *Hub) register(c *connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	conns, ok := h.sessions[c.sessionID]
	if !ok {
		conns = make(map[*connection]struct{})
		h.sessions[c.sessionID] = conns
	}
	conns[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.sessions[c.sessionID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.sessions, c.sessionID)
	}
}

// readPump only keeps the connection alive; clients never send commands.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("session websocket closed", zap.String("session_id", c.sessionID), zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
