package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// Client is one connected browser tab, bound to a chat session.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	send      chan Message
	logger    *zap.Logger
}

func newClient(conn *websocket.Conn, sessionID string, logger *zap.Logger) *Client {
	return &Client{
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan Message, sendBuffer),
		logger:    logger,
	}
}

// Hub tracks connected clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", zap.String("session_id", c.sessionID))
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.logger.Debug("websocket client disconnected", zap.String("session_id", c.sessionID))
}

// Broadcast sends msg to every client.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.enqueue(c, msg)
	}
}

// SendTo sends msg to one registered client.
func (h *Hub) SendTo(c *Client, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; ok {
		h.enqueue(c, msg)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// enqueue drops the message when the client's buffer is full. Caller
// holds h.mu.
func (h *Hub) enqueue(c *Client, msg Message) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("client send buffer full, dropping message",
			zap.String("session_id", c.sessionID),
			zap.String("type", string(msg.Type)),
		)
	}
}

// writePump sends queued messages until ctx ends or the hub closes the
// channel.
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, c.conn, msg)
			cancel()
			if err != nil {
				c.logger.Debug("websocket write error", zap.Error(err))
				return
			}
		}
	}
}
