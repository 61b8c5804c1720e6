package httpapi

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hvlab/settlement/internal/logging"
)

// Hub fans document updates out to every connected websocket subscriber.
// Updates go to all subscribers including the writer's own connection;
// clients drop their own echoes by session id.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger logging.Logger
}

func NewHub(logger logging.Logger) *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{}), logger: logger}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast sends the document body to every subscriber. A connection that
// fails to take the write is dropped; its client will redial.
func (h *Hub) Broadcast(ctx context.Context, body []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
			h.logger.Warn(ctx, "dropping dead subscriber", "error", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
