package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

type entry struct {
	mu sync.Mutex
	c  *websocket.Conn
}

// Hub maps session IDs to their live websocket connections. Writes go
// through Send, which serializes writers per connection (gorilla conns are
// not safe for concurrent writes).
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*entry
}

func NewHub() *Hub {
	return &Hub{conns: map[string]*entry{}}
}

func (h *Hub) Add(id string, c *websocket.Conn) {
	h.mu.Lock()
	h.conns[id] = &entry{c: c}
	h.mu.Unlock()
}

func (h *Hub) Get(id string) (*websocket.Conn, bool) {
	h.mu.RLock()
	e, ok := h.conns[id]
	h.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.c, true
}

// Remove drops the session's registration if it still belongs to c, and
// reports whether it did. A connection that has been replaced must not tear
// down its successor's registration.
func (h *Hub) Remove(id string, c *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.conns[id]
	if !ok || e.c != c {
		return false
	}
	delete(h.conns, id)
	return true
}

// Send writes v as JSON to the session's connection, if any.
func (h *Hub) Send(id string, v interface{}) error {
	h.mu.RLock()
	e, ok := h.conns[id]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.c.WriteJSON(v)
}
