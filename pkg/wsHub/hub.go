package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
	"github.com/Temutjin2k/fare-predictor/pkg/metrics"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
	ErrHubClosed      = errors.New("hub is closed")
)

// ConnectionHub tracks active websocket sessions so they can be closed on shutdown.
type ConnectionHub struct {
	service string
	clients map[uuid.UUID]*Conn
	closed  bool
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(service string, l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		service: service,
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add registers a connection. A connection with the same id is replaced and closed.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}

	if existing, ok := h.clients[newConn.id]; ok {
		ctx := wrap.WithAction(context.Background(), "add_ws_connection")
		h.l.Warn(ctx, "replacing existing connection", "session_id", existing.id)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing conn", "session_id", existing.id, "err", err.Error())
		}
	} else {
		metrics.WebSocketConnectionsGauge.WithLabelValues(h.service).Inc()
	}

	h.clients[newConn.id] = newConn
	return nil
}

// Delete removes and closes the connection with the given id.
func (h *ConnectionHub) Delete(id uuid.UUID) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		metrics.WebSocketConnectionsGauge.WithLabelValues(h.service).Dec()
	}
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		ctx := wrap.WithAction(context.Background(), "ws_connection_delete")
		h.l.Debug(ctx, "failed to close conn", "session_id", id, "err", err.Error())
	}
	return nil
}

// Close closes every connection and rejects new ones.
func (h *ConnectionHub) Close() {
	ctx := wrap.WithAction(context.Background(), "hub_close")

	h.mu.Lock()
	h.closed = true
	ids := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		_ = h.Delete(id)
	}

	h.l.Info(ctx, "all websocket connections closed gracefully", "closed", len(ids))
}

func (h *ConnectionHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
