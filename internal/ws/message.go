package ws

import (
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	// MessageUserMessage is the only type a client sends.
	MessageUserMessage MessageType = "user.message"

	MessageSessionStarted    MessageType = "session.started"
	MessageAssistantThinking MessageType = "assistant.thinking"
	MessageAssistantReply    MessageType = "assistant.reply"
	MessageListUpdated       MessageType = "list.updated"
	MessageError             MessageType = "error"
)

// Inbound is a message read from a client.
type Inbound struct {
	Type    MessageType `json:"type"`
	Content string      `json:"content"`
}

// Message is the envelope for every message sent to a client.
type Message struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data,omitempty"`
}

// SessionStartedData is the payload for session.started messages.
type SessionStartedData struct {
	Messages []models.Turn `json:"messages"`
	Trailers []string      `json:"trailers"`
}

// ListUpdatedData is the payload for list.updated messages.
type ListUpdatedData struct {
	Target  string   `json:"target"`
	Mode    string   `json:"mode"`
	Updated []string `json:"updated"`
	Failed  []string `json:"failed"`
}

// ErrorData is the payload for error messages.
type ErrorData struct {
	Error string `json:"error"`
}
