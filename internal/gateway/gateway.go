// Package gateway is the single entry point for chat model calls made on
// behalf of a conversation. It shapes the history window, applies the
// call defaults and records per-purpose metrics.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/llm"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"go.uber.org/zap"
)

// Purpose labels a call in logs and metrics.
type Purpose string

const (
	PurposeClassify     Purpose = "classify"
	PurposeDisambiguate Purpose = "disambiguate"
	PurposeRender       Purpose = "render"
)

// DefaultWindow is the number of history entries sent with a call.
const DefaultWindow = 6

// ErrNoProvider is returned when no chat model is configured.
var ErrNoProvider = errors.New("gateway: no llm provider")

// Request is one model invocation. Zero MaxTokens and a nil Temperature
// take the gateway defaults.
type Request struct {
	Prompt      string
	System      string
	History     []models.Turn
	MaxTokens   int
	Temperature *float64
	// Silent calls carry no history.
	Silent  bool
	Purpose Purpose
}

// Config holds the call defaults.
type Config struct {
	Window    int `mapstructure:"history_window"`
	MaxTokens int `mapstructure:"max_tokens"`
	// Temperature is unset when nil; 0 is a valid setting.
	Temperature *float64 `mapstructure:"temperature"`
}

// DefaultConfig returns a six-entry window, 1024 tokens and temperature 0.7.
func DefaultConfig() Config {
	return Config{
		Window:      DefaultWindow,
		MaxTokens:   llm.DefaultMaxTokens,
		Temperature: models.Ptr(llm.DefaultTemperature),
	}
}

// Gateway invokes a provider with a windowed history.
type Gateway struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// New creates a Gateway. Non-positive window and token values, and a nil
// or negative temperature, fall back to defaults.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Gateway {
	def := DefaultConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Temperature == nil || *cfg.Temperature < 0 {
		cfg.Temperature = def.Temperature
	}
	return &Gateway{provider: provider, cfg: cfg, logger: logger}
}

// Invoke sends req to the model and returns the reply text.
func (g *Gateway) Invoke(ctx context.Context, req Request) (string, error) {
	if g.provider == nil {
		return "", ErrNoProvider
	}

	var messages []llm.Message
	if !req.Silent {
		messages = Window(req.History, g.cfg.Window)
	}
	if req.Prompt != "" {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Prompt})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.cfg.MaxTokens
	}
	temperature := *g.cfg.Temperature
	if req.Temperature != nil && *req.Temperature >= 0 {
		temperature = *req.Temperature
	}

	purpose := string(req.Purpose)
	start := time.Now()
	resp, err := g.provider.Chat(ctx, messages,
		llm.WithSystem(req.System),
		llm.WithMaxTokens(maxTokens),
		llm.WithTemperature(temperature),
	)
	callDuration.WithLabelValues(purpose).Observe(time.Since(start).Seconds())
	if err != nil {
		callsTotal.WithLabelValues(purpose, llm.Code(err)).Inc()
		g.logger.Warn("model call failed",
			zap.String("purpose", purpose),
			zap.Int("messages", len(messages)),
			zap.Error(err),
		)
		return "", fmt.Errorf("%s call: %w", purpose, err)
	}
	callsTotal.WithLabelValues(purpose, "ok").Inc()

	g.logger.Debug("model call",
		zap.String("purpose", purpose),
		zap.Int("messages", len(messages)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("took", time.Since(start)),
	)
	return resp.Content, nil
}

// Window selects the history entries sent with a call. It walks history
// newest first, keeps user and assistant turns plus the most recent hidden
// turn (sent with the assistant role), stops after n entries and returns
// them oldest first.
func Window(history []models.Turn, n int) []llm.Message {
	picked := make([]llm.Message, 0, n)
	hiddenSeen := false
	for i := len(history) - 1; i >= 0 && len(picked) < n; i-- {
		t := history[i]
		switch t.Role {
		case models.RoleHidden:
			if hiddenSeen {
				continue
			}
			hiddenSeen = true
			picked = append(picked, llm.Message{Role: llm.RoleAssistant, Content: t.Content})
		case models.RoleUser:
			picked = append(picked, llm.Message{Role: llm.RoleUser, Content: t.Content})
		case models.RoleAssistant:
			picked = append(picked, llm.Message{Role: llm.RoleAssistant, Content: t.Content})
		}
	}

	for i, j := 0, len(picked)-1; i < j; i, j = i+1, j-1 {
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked
}
