package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/google/uuid"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub tracks open dashboard connections grouped by owner SRCODE.
type ConnectionHub struct {
	clients map[string]map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[string]map[uuid.UUID]*Conn),
		l:       l,
	}
}

func (h *ConnectionHub) Add(c *Conn) error {
	if c == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	owned, ok := h.clients[c.owner]
	if !ok {
		owned = make(map[uuid.UUID]*Conn)
		h.clients[c.owner] = owned
	}
	owned[c.id] = c

	ctx := wrap.WithUserID(wrap.WithAction(context.Background(), "ws_connection_add"), c.owner)
	h.l.Debug(ctx, "websocket connection added", "conn_id", c.id.String(), "owner_conns", len(owned))

	return nil
}

// Remove closes c and forgets it.
func (h *ConnectionHub) Remove(c *Conn) error {
	if c == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	owned, ok := h.clients[c.owner]
	if ok {
		_, ok = owned[c.id]
		delete(owned, c.id)
		if len(owned) == 0 {
			delete(h.clients, c.owner)
		}
	}
	h.mu.Unlock()

	if err := c.Close(); err != nil {
		ctx := wrap.WithUserID(wrap.WithAction(context.Background(), "ws_connection_delete"), c.owner)
		h.l.Warn(ctx, "failed to close conn", "conn_id", c.id.String(), "err", err.Error())
	}

	if !ok {
		return ErrConnIsNotFound
	}
	return nil
}

// SendTo delivers msg to every connection of owner and returns how many received it.
// Connections that fail to write are dropped.
func (h *ConnectionHub) SendTo(ctx context.Context, owner string, msg any) (int, error) {
	h.mu.Lock()
	targets := make([]*Conn, 0, len(h.clients[owner]))
	for _, c := range h.clients[owner] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	if len(targets) == 0 {
		return 0, ErrConnIsNotFound
	}

	delivered := 0
	for _, c := range targets {
		if err := c.Send(msg); err != nil {
			h.l.Warn(wrap.WithUserID(ctx, owner), "dropping websocket connection", "conn_id", c.id.String(), "err", err.Error())
			_ = h.Remove(c)
			continue
		}
		delivered++
	}
	return delivered, nil
}

// Count returns the number of open connections.
func (h *ConnectionHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, owned := range h.clients {
		n += len(owned)
	}
	return n
}

// Close closes every websocket connection.
func (h *ConnectionHub) Close() {
	ctx := wrap.WithAction(context.Background(), "hub_close")

	h.mu.Lock()
	conns := make([]*Conn, 0)
	for _, owned := range h.clients {
		for _, c := range owned {
			conns = append(conns, c)
		}
	}
	h.clients = make(map[string]map[uuid.UUID]*Conn)
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}

	h.l.Info(ctx, "all websocket connections closed gracefully", "count", len(conns))
}
