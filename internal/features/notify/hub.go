package notify

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is one push notification to a list session's subscribers.
type Event struct {
	SessionID string      `json:"sessionId"`
	Kind      string      `json:"kind"`
	Payload   interface{} `json:"payload,omitempty"`
}

const (
	EventRefresh = "refresh"
	EventNotice  = "notice"
)

// Notifier publishes events to whoever watches a session.
type Notifier interface {
	Publish(sessionID, kind string, payload interface{})
}

// Hub fans events out to websocket subscribers keyed by session id.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*websocket.Conn]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   map[string]map[*websocket.Conn]struct{}{},
		logger: logger,
	}
}

func (h *Hub) Subscribe(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = map[*websocket.Conn]struct{}{}
	}
	h.subs[sessionID][conn] = struct{}{}
}

func (h *Hub) Unsubscribe(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.subs[sessionID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subs, sessionID)
		}
	}
}

// Publish sends an event to every subscriber of the session. Write errors
// drop only the failing connection.
func (h *Hub) Publish(sessionID, kind string, payload interface{}) {
	msg, err := json.Marshal(Event{SessionID: sessionID, Kind: kind, Payload: payload})
	if err != nil {
		h.logger.Warn("notify marshal failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[sessionID]))
	for conn := range h.subs[sessionID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("notify write failed, dropping subscriber", zap.Error(err))
			h.Unsubscribe(sessionID, conn)
		}
	}
}

// SubscriberCount reports how many connections watch a session.
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}
