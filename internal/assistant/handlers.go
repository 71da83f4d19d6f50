package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/internal/action"
	"github.com/MattTPin/movie-reccomendation-agent/internal/chat"
	"github.com/MattTPin/movie-reccomendation-agent/internal/turnlog"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"go.uber.org/zap"
)

const maxMessageBytes = 16 << 10

// SessionResponse is the JSON body returned for a session.
type SessionResponse struct {
	ID       string        `json:"id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	Created  time.Time     `json:"created"`
	Messages []models.Turn `json:"messages"`
	Trailers []string      `json:"trailers"`
}

// SendMessageRequest is the body of POST /sessions/{id}/messages.
type SendMessageRequest struct {
	Content string `json:"content" example:"what's trending this week?"`
}

// SendMessageResponse is the reply to a sent message.
type SendMessageResponse struct {
	Reply    chat.Reply    `json:"reply"`
	Messages []models.Turn `json:"messages"`
}

// TrailerResponse is one collected trailer.
type TrailerResponse struct {
	VideoID  string `json:"video_id" example:"YoHD9XEInc0"`
	EmbedURL string `json:"embed_url" example:"https://www.youtube.com/embed/YoHD9XEInc0"`
}

// ArgResponse describes one action argument.
type ArgResponse struct {
	Name string `json:"name"`
	Hint string `json:"hint"`
}

// ActionResponse describes one catalog action.
type ActionResponse struct {
	ID                action.ID     `json:"id"`
	Description       string        `json:"description"`
	ImmediateArgs     []ArgResponse `json:"immediate_args"`
	FollowUpArgs      []ArgResponse `json:"follow_up_args,omitempty"`
	HasFollowUp       bool          `json:"has_follow_up"`
	ImmediateArgNotes string        `json:"immediate_arg_notes,omitempty"`
	FinalArgNotes     string        `json:"final_arg_notes,omitempty"`
}

// TurnListResponse is a page of the turn log.
type TurnListResponse struct {
	Turns []turnlog.Entry `json:"turns"`
	Total int             `json:"total"`
}

// handleCreateSession starts a conversation.
//
//	@Summary		Create a chat session
//	@Description	Starts a new session whose history holds the greeting.
//	@Tags			assistant
//	@Produce		json
//	@Success		201	{object}	SessionResponse
//	@Failure		503	{object}	models.APIProblem
//	@Router			/assistant/sessions [post]
func (m *Module) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	_, sessions := m.Chat()
	if sessions == nil {
		m.writeUnavailable(w)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse(sessions.Create()))
}

// handleListMessages returns the visible transcript of a session.
//
//	@Summary		List session messages
//	@Description	Returns user and assistant turns. Hidden memory turns are never included.
//	@Tags			assistant
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	models.APIProblem
//	@Failure		503	{object}	models.APIProblem
//	@Router			/assistant/sessions/{id}/messages [get]
func (m *Module) handleListMessages(w http.ResponseWriter, r *http.Request) {
	sess, ok := m.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

// handleSendMessage runs one turn.
//
//	@Summary		Send a message
//	@Description	Routes the message to an action and returns the assistant's reply.
//	@Tags			assistant
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Session ID"
//	@Param			request	body		SendMessageRequest	true	"User message"
//	@Success		200		{object}	SendMessageResponse
//	@Failure		400		{object}	models.APIProblem
//	@Failure		404		{object}	models.APIProblem
//	@Failure		503		{object}	models.APIProblem
//	@Router			/assistant/sessions/{id}/messages [post]
func (m *Module) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := m.session(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeError(w, http.StatusBadRequest, "message content is required")
		return
	}

	service, _ := m.Chat()
	ctx := r.Context()
	if timeout := m.TurnTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	reply := service.Send(ctx, sess, content)
	writeJSON(w, http.StatusOK, SendMessageResponse{Reply: reply, Messages: sess.Visible()})
}

// handleDeleteSession drops a session.
//
//	@Summary		Delete a chat session
//	@Tags			assistant
//	@Param			id	path	string	true	"Session ID"
//	@Success		204
//	@Failure		404	{object}	models.APIProblem
//	@Failure		503	{object}	models.APIProblem
//	@Router			/assistant/sessions/{id} [delete]
func (m *Module) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	_, sessions := m.Chat()
	if sessions == nil {
		m.writeUnavailable(w)
		return
	}
	if !sessions.Delete(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTrailers lists the trailers mentioned in a session.
//
//	@Summary		List session trailers
//	@Description	Returns the YouTube trailers collected from assistant replies, oldest first.
//	@Tags			assistant
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{array}		TrailerResponse
//	@Failure		404	{object}	models.APIProblem
//	@Failure		503	{object}	models.APIProblem
//	@Router			/assistant/sessions/{id}/trailers [get]
func (m *Module) handleTrailers(w http.ResponseWriter, r *http.Request) {
	sess, ok := m.session(w, r)
	if !ok {
		return
	}
	ids := sess.Trailers()
	out := make([]TrailerResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, TrailerResponse{VideoID: id, EmbedURL: chat.EmbedURL(id)})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleActions lists the action catalog.
//
//	@Summary		List actions
//	@Description	Returns the actions the router can pick from.
//	@Tags			assistant
//	@Produce		json
//	@Success		200	{array}		ActionResponse
//	@Failure		503	{object}	models.APIProblem
//	@Router			/assistant/actions [get]
func (m *Module) handleActions(w http.ResponseWriter, _ *http.Request) {
	catalog := m.actionCatalog()
	if catalog == nil {
		m.writeUnavailable(w)
		return
	}
	specs := catalog.All()
	out := make([]ActionResponse, 0, len(specs))
	for _, s := range specs {
		out = append(out, ActionResponse{
			ID:                s.ID,
			Description:       s.Description,
			ImmediateArgs:     argResponses(s.ImmediateArgs),
			FollowUpArgs:      argResponses(s.FollowUpArgs),
			HasFollowUp:       s.FollowUp != nil,
			ImmediateArgNotes: s.ImmediateArgNotes,
			FinalArgNotes:     s.FinalArgNotes,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleTurns pages through the turn log.
//
//	@Summary		List recorded turns
//	@Description	Returns turn log entries newest first, optionally filtered by action.
//	@Tags			assistant
//	@Produce		json
//	@Param			action	query		string	false	"Action id filter"
//	@Param			limit	query		int		false	"Page size (default 50, max 500)"
//	@Param			offset	query		int		false	"Offset"
//	@Success		200		{object}	TurnListResponse
//	@Failure		400		{object}	models.APIProblem
//	@Failure		503		{object}	models.APIProblem
//	@Router			/assistant/turns [get]
func (m *Module) handleTurns(w http.ResponseWriter, r *http.Request) {
	if m.turns == nil {
		writeError(w, http.StatusServiceUnavailable, "turn log is disabled")
		return
	}
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), 50)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil || offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	entries, total, err := m.turns.List(r.Context(), q.Get("action"), min(limit, 500), offset)
	if err != nil {
		m.logger.Error("failed to list turns", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list turns")
		return
	}
	writeJSON(w, http.StatusOK, TurnListResponse{Turns: entries, Total: total})
}

// handleWebSocket upgrades to the streaming chat protocol.
//
//	@Summary		Chat over WebSocket
//	@Description	Upgrades to a WebSocket carrying user.message, assistant.reply and list.updated messages.
//	@Tags			assistant
//	@Param			session_id	query	string	false	"Session to resume"
//	@Success		101
//	@Failure		404	{object}	models.APIProblem
//	@Failure		503	{object}	models.APIProblem
//	@Router			/assistant/ws [get]
func (m *Module) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	socket := m.websocket()
	if socket == nil {
		m.writeUnavailable(w)
		return
	}
	socket.ServeHTTP(w, r)
}

// session resolves the {id} path value, answering the request on failure.
func (m *Module) session(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	_, sessions := m.Chat()
	if sessions == nil {
		m.writeUnavailable(w)
		return nil, false
	}
	sess, ok := sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (m *Module) writeUnavailable(w http.ResponseWriter) {
	m.mu.RLock()
	reason := m.notReady
	m.mu.RUnlock()
	if reason == nil {
		reason = errors.New("not started")
	}
	writeError(w, http.StatusServiceUnavailable, "assistant unavailable: "+reason.Error())
}

func sessionResponse(s *chat.Session) SessionResponse {
	return SessionResponse{
		ID:       s.ID,
		Created:  s.Created,
		Messages: s.Visible(),
		Trailers: s.Trailers(),
	}
}

func argResponses(args []action.Arg) []ArgResponse {
	if len(args) == 0 {
		return nil
	}
	out := make([]ArgResponse, len(args))
	for i, a := range args {
		out[i] = ArgResponse{Name: a.Name, Hint: a.Hint}
	}
	return out
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an RFC 7807 problem detail response.
func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://movieagent.dev/problems/" + strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "-")),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
