package card

import (
	"sync"

	"golang.org/x/exp/slog"

	"github.com/jonanatree/securitycard/card/models"
)

// Conn is a live observer connection. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub maintains the set of live observer connections and fans events out to
// all of them. Delivery is at-most-once and best-effort: a connection whose
// send fails is closed and dropped within the same broadcast call, and
// never blocks delivery to the others. Broadcasts are serialized under one
// mutex, so each connection sees the events of a single transaction in the
// order they were issued.
type Hub struct {
	mu     sync.Mutex
	conns  map[Conn]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[Conn]struct{}),
		logger: logger.With(slog.String("component", "hub")),
	}
}

func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[c] = struct{}{}
}

func (h *Hub) Unregister(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns, c)
}

// Len returns the number of registered connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.conns)
}

// Broadcast delivers event to every registered connection, pruning any
// connection whose send fails.
func (h *Hub) Broadcast(event models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var failed []Conn
	for c := range h.conns {
		if err := c.WriteJSON(event); err != nil {
			h.logger.Info("dropping observer connection", "err", err)
			failed = append(failed, c)
		}
	}

	for _, c := range failed {
		c.Close()
		delete(h.conns, c)
	}
}

// Close drops and closes every registered connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.conns {
		c.Close()
		delete(h.conns, c)
	}
}
