// Package webhook forwards watchlist changes and completed chat turns to
// configured HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/internal/chat"
	"github.com/MattTPin/movie-reccomendation-agent/internal/trakt"
	"github.com/MattTPin/movie-reccomendation-agent/internal/version"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/roles"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ plugin.Plugin = (*Module)(nil)

// DefaultTopics are forwarded when no topics are configured.
var DefaultTopics = []string{trakt.TopicListUpdated, chat.TopicTurnCompleted}

// Config holds the webhook plugin configuration.
type Config struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	URLs    []string      `mapstructure:"urls"`
	Topics  []string      `mapstructure:"topics"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns an enabled notifier with no targets.
func DefaultConfig() Config {
	return Config{Enabled: true, Timeout: 10 * time.Second}
}

func (c Config) targets() []string {
	var out []string
	if c.URL != "" {
		out = append(out, c.URL)
	}
	for _, u := range c.URLs {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Module implements the webhook notifier plugin.
type Module struct {
	logger *zap.Logger
	bus    plugin.EventBus
	cfg    Config
	client *http.Client

	mu     sync.Mutex
	unsubs []func()
}

// New creates a webhook module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "webhook",
		Version:     "0.2.0",
		Description: "POSTs watchlist updates and completed chat turns to webhook URLs",
		Roles:       []string{roles.RoleNotification},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(_ context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus

	cfg := DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal webhook config: %w", err)
		}
	}
	if len(cfg.Topics) == 0 {
		cfg.Topics = DefaultTopics
	}
	m.cfg = cfg
	m.client = &http.Client{Timeout: cfg.Timeout}

	if len(cfg.targets()) == 0 {
		m.logger.Warn("webhook URL not configured; notifications will be dropped")
	}
	m.logger.Info("webhook module initialized",
		zap.Int("targets", len(cfg.targets())),
		zap.Strings("topics", cfg.Topics),
		zap.Duration("timeout", cfg.Timeout),
		zap.Bool("enabled", cfg.Enabled),
	)
	return nil
}

// Start subscribes to the configured topics.
func (m *Module) Start(_ context.Context) error {
	if m.bus == nil || !m.cfg.Enabled || len(m.cfg.targets()) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, topic := range m.cfg.Topics {
		m.unsubs = append(m.unsubs, m.bus.Subscribe(topic, m.handleEvent))
	}
	m.logger.Info("webhook module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.mu.Lock()
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
	m.mu.Unlock()
	m.logger.Info("webhook module stopped")
	return nil
}

// Payload is the JSON body sent to every webhook URL.
type Payload struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

func (m *Module) handleEvent(ctx context.Context, event plugin.Event) {
	if !m.cfg.Enabled {
		return
	}

	payload := Payload{
		ID:        uuid.NewString(),
		Event:     event.Topic,
		Source:    event.Source,
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Data:      event.Payload,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		m.logger.Error("failed to marshal webhook payload",
			zap.String("topic", event.Topic),
			zap.Error(err),
		)
		return
	}

	for _, url := range m.cfg.targets() {
		m.send(ctx, url, payload.ID, event.Topic, body)
	}
}

func (m *Module) send(ctx context.Context, url, id, topic string, body []byte) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		m.logger.Error("failed to create webhook request", zap.Error(err))
		deliveriesTotal.WithLabelValues(topic, "error").Inc()
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "movieagent-webhook/"+version.Short())
	req.Header.Set("X-Request-ID", id)
	req.Header.Set("X-Movieagent-Event", topic)

	resp, err := m.client.Do(req)
	if err != nil {
		deliveriesTotal.WithLabelValues(topic, "error").Inc()
		m.logger.Warn("webhook delivery failed",
			zap.String("url", url),
			zap.String("topic", topic),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		deliveriesTotal.WithLabelValues(topic, "rejected").Inc()
		m.logger.Warn("webhook endpoint returned error",
			zap.String("url", url),
			zap.String("topic", topic),
			zap.Int("status_code", resp.StatusCode),
		)
		return
	}

	deliveriesTotal.WithLabelValues(topic, "ok").Inc()
	m.logger.Debug("webhook delivered",
		zap.String("topic", topic),
		zap.Int("status_code", resp.StatusCode),
	)
}
