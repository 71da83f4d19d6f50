// Package chat runs conversation turns: it routes the newest user message,
// renders action results through the model and keeps each session's
// history, hidden memory turns included.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/internal/action"
	"github.com/MattTPin/movie-reccomendation-agent/internal/gateway"
	"github.com/MattTPin/movie-reccomendation-agent/internal/router"
	"github.com/MattTPin/movie-reccomendation-agent/internal/turnlog"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"go.uber.org/zap"
)

// Fixed replies and markers.
const (
	HiddenMemoryPrefix = "[HIDDEN MEMORY Action Result Metadata. Use as memory only. Never show to user.]: "
	NoContentReply     = "[No content returned]"
	UnexpectedError    = "An unexpected error occurred."
	UnexpectedState    = "Unexpected routing state."
)

// TopicTurnCompleted is published after every turn.
const TopicTurnCompleted = "chat.turn.completed"

// TurnCompletedEvent is the payload of TopicTurnCompleted.
type TurnCompletedEvent struct {
	SessionID  string   `json:"session_id"`
	Action     string   `json:"action,omitempty"`
	Outcome    string   `json:"outcome"`
	DurationMs int64    `json:"duration_ms"`
	Trailers   []string `json:"trailers,omitempty"`
}

// Router picks and runs the action for the newest user turn.
type Router interface {
	Route(ctx context.Context, history []models.Turn) router.Result
}

// Renderer turns an action record into the reply shown to the user.
type Renderer interface {
	Invoke(ctx context.Context, req gateway.Request) (string, error)
}

// TurnRecorder stores one audit row per turn.
type TurnRecorder interface {
	Insert(ctx context.Context, e turnlog.Entry) error
}

// Reply is the outcome of one Send.
type Reply struct {
	Content string      `json:"content"`
	Kind    router.Kind `json:"kind"`
	Action  action.ID   `json:"action,omitempty"`
	// NewTrailers are the YouTube ids first mentioned in this reply.
	NewTrailers []string `json:"new_trailers,omitempty"`
}

// Option configures a Service.
type Option func(*Service)

// WithTurnLog records every turn in rec.
func WithTurnLog(rec TurnRecorder) Option {
	return func(s *Service) { s.turns = rec }
}

// WithBus publishes TopicTurnCompleted on bus.
func WithBus(bus plugin.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

// Service runs turns against sessions.
type Service struct {
	router   Router
	renderer Renderer
	turns    TurnRecorder
	bus      plugin.EventBus
	logger   *zap.Logger
}

// NewService creates a Service.
func NewService(r Router, renderer Renderer, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{router: r, renderer: renderer, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send appends text as a user turn, runs it and appends the reply. Turns
// on one session run one at a time. Failures end up in the reply text,
// never as an error.
func (s *Service) Send(ctx context.Context, sess *Session, text string) Reply {
	sess.turn.Lock()
	defer sess.turn.Unlock()

	start := time.Now()
	sess.append(models.Turn{Role: models.RoleUser, Content: text})
	history := sess.History()

	res := s.router.Route(ctx, history)
	reply := Reply{Kind: res.Kind, Action: res.Action}
	var failure string

	switch res.Kind {
	case router.KindFallback:
		reply.Content = EmbedLinks(res.Fallback)
		sess.append(models.Turn{Role: models.RoleAssistant, Content: reply.Content})

	case router.KindError:
		reply.Content = res.Prompt
		if reply.Content == "" {
			reply.Content = UnexpectedError
		}
		failure = reply.Content
		sess.append(models.Turn{Role: models.RoleAssistant, Content: reply.Content})

	case router.KindSuccess:
		rendered, err := s.renderer.Invoke(ctx, gateway.Request{
			Prompt:  res.ActionJSON,
			System:  res.ActionPrompt,
			History: history,
			Purpose: gateway.PurposeRender,
		})
		if err != nil {
			s.logger.Warn("render failed", zap.String("action", string(res.Action)), zap.Error(err))
			failure = err.Error()
			rendered = router.ModelUnavailablePrompt
		}
		if res.ActionJSON != "" {
			sess.append(models.Turn{Role: models.RoleHidden, Content: HiddenMemoryPrefix + res.ActionJSON})
		}

		reply.Content = EmbedLinks(rendered)
		reply.NewTrailers = sess.addTrailers(ExtractYouTubeIDs(reply.Content))
		if strings.TrimSpace(reply.Content) == "" {
			reply.Content = NoContentReply
		}
		sess.append(models.Turn{Role: models.RoleAssistant, Content: reply.Content})

	default:
		reply.Content = UnexpectedState
		failure = reply.Content
		sess.append(models.Turn{Role: models.RoleAssistant, Content: reply.Content})
	}

	s.record(ctx, sess.ID, text, reply, failure, time.Since(start))
	return reply
}

func (s *Service) record(ctx context.Context, sessionID, text string, reply Reply, failure string, took time.Duration) {
	s.logger.Info("turn completed",
		zap.String("session_id", sessionID),
		zap.String("kind", string(reply.Kind)),
		zap.String("action", string(reply.Action)),
		zap.Duration("took", took),
	)

	if s.turns != nil {
		err := s.turns.Insert(context.WithoutCancel(ctx), turnlog.Entry{
			SessionID:   sessionID,
			UserMessage: text,
			Action:      string(reply.Action),
			Outcome:     string(reply.Kind),
			DurationMs:  took.Milliseconds(),
			Error:       failure,
		})
		if err != nil {
			s.logger.Warn("turn log insert failed", zap.Error(err))
		}
	}

	if s.bus != nil {
		s.bus.PublishAsync(context.WithoutCancel(ctx), plugin.Event{
			Topic:     TopicTurnCompleted,
			Source:    "assistant",
			Timestamp: time.Now(),
			Payload: TurnCompletedEvent{
				SessionID:  sessionID,
				Action:     string(reply.Action),
				Outcome:    string(reply.Kind),
				DurationMs: took.Milliseconds(),
				Trailers:   reply.NewTrailers,
			},
		})
	}
}
