// Package ws streams chat turns over WebSocket and pushes watchlist
// changes to every connected client.
package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/internal/chat"
	"github.com/MattTPin/movie-reccomendation-agent/internal/trakt"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

// maxMessageBytes caps a single inbound frame.
const maxMessageBytes = 16 << 10

// Handler serves the chat WebSocket endpoint.
type Handler struct {
	hub      *Hub
	sessions *chat.SessionStore
	service  *chat.Service
	origins  []string
	logger   *zap.Logger
	unsub    func()
}

// NewHandler creates a handler and subscribes to list update events.
// origins are host patterns accepted besides the request's own host.
func NewHandler(sessions *chat.SessionStore, service *chat.Service, bus plugin.EventBus, origins []string, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:      NewHub(logger),
		sessions: sessions,
		service:  service,
		origins:  origins,
		logger:   logger,
	}
	if bus != nil {
		h.unsub = bus.Subscribe(trakt.TopicListUpdated, h.onListUpdated)
	}
	return h
}

// Close drops the event subscription.
func (h *Handler) Close() {
	if h.unsub != nil {
		h.unsub()
	}
}

// Hub returns the handler's client hub.
func (h *Handler) Hub() *Hub {
	return h.hub
}

// ServeHTTP upgrades the request and runs a chat session over it. The
// session_id query parameter resumes an existing session; without it a new
// session is created.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(r.URL.Query().Get("session_id"))
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxMessageBytes)

	client := newClient(conn, sess.ID, h.logger)
	h.hub.Register(client)

	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	h.hub.SendTo(client, Message{
		Type:      MessageSessionStarted,
		SessionID: sess.ID,
		Timestamp: time.Now(),
		Data:      SessionStartedData{Messages: sess.Visible(), Trailers: sess.Trailers()},
	})

	h.readLoop(ctx, client, sess)

	h.hub.Unregister(client)
	<-done
	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Handler) session(id string) (*chat.Session, bool) {
	if id == "" {
		return h.sessions.Create(), true
	}
	return h.sessions.Get(id)
}

// readLoop runs one turn per inbound message until the client goes away.
func (h *Handler) readLoop(ctx context.Context, c *Client, sess *chat.Session) {
	for {
		var in Inbound
		if err := wsjson.Read(ctx, c.conn, &in); err != nil {
			if !isClosed(err) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		switch {
		case in.Type != MessageUserMessage:
			h.sendError(c, sess.ID, "unsupported message type: "+string(in.Type))
		case strings.TrimSpace(in.Content) == "":
			h.sendError(c, sess.ID, "message content is required")
		default:
			h.hub.SendTo(c, Message{Type: MessageAssistantThinking, SessionID: sess.ID, Timestamp: time.Now()})
			reply := h.service.Send(ctx, sess, strings.TrimSpace(in.Content))
			h.hub.SendTo(c, Message{
				Type:      MessageAssistantReply,
				SessionID: sess.ID,
				Timestamp: time.Now(),
				Data:      reply,
			})
		}
	}
}

func (h *Handler) sendError(c *Client, sessionID, msg string) {
	h.hub.SendTo(c, Message{
		Type:      MessageError,
		SessionID: sessionID,
		Timestamp: time.Now(),
		Data:      ErrorData{Error: msg},
	})
}

func (h *Handler) onListUpdated(_ context.Context, event plugin.Event) {
	e, ok := event.Payload.(trakt.ListUpdatedEvent)
	if !ok {
		return
	}
	h.hub.Broadcast(Message{
		Type:      MessageListUpdated,
		Timestamp: event.Timestamp,
		Data: ListUpdatedData{
			Target:  string(e.Target),
			Mode:    string(e.Mode),
			Updated: e.Updated,
			Failed:  e.Failed,
		},
	})
}

func isClosed(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return false
}
