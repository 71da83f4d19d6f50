// Package llm is the module that owns the configured chat model provider
// and exposes it to the rest of the assistant through roles.LLMProvider.
package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/MattTPin/movie-reccomendation-agent/internal/llm/anthropic"
	"github.com/MattTPin/movie-reccomendation-agent/internal/llm/ollama"
	"github.com/MattTPin/movie-reccomendation-agent/internal/llm/openai"
	pkgllm "github.com/MattTPin/movie-reccomendation-agent/pkg/llm"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/roles"
	"go.uber.org/zap"
)

var (
	_ plugin.Plugin        = (*Module)(nil)
	_ plugin.HealthChecker = (*Module)(nil)
	_ plugin.HTTPProvider  = (*Module)(nil)
	_ roles.LLMProvider    = (*Module)(nil)
)

// Provider names accepted in plugins.llm.provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// ModuleConfig holds the provider choice and one sub-config per provider.
type ModuleConfig struct {
	Provider  string           `mapstructure:"provider"`
	Anthropic anthropic.Config `mapstructure:"anthropic"`
	OpenAI    openai.Config    `mapstructure:"openai"`
	Ollama    ollama.Config    `mapstructure:"ollama"`
}

// DefaultModuleConfig returns Anthropic with each provider's defaults.
func DefaultModuleConfig() ModuleConfig {
	return ModuleConfig{
		Provider:  ProviderAnthropic,
		Anthropic: anthropic.DefaultConfig(),
		OpenAI:    openai.DefaultConfig(),
		Ollama:    ollama.DefaultConfig(),
	}
}

// Module implements the llm plugin.
type Module struct {
	logger *zap.Logger

	mu       sync.RWMutex
	cfg      ModuleConfig
	provider pkgllm.Provider
}

// New creates an llm module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "llm",
		Version:     "0.3.0",
		Description: "Chat model provider (Anthropic, OpenAI, Ollama)",
		Roles:       []string{roles.RoleLLM},
		Required:    true,
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(_ context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger

	cfg := DefaultModuleConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal llm config: %w", err)
		}
	}

	provider, err := newProvider(cfg, m.logger)
	if err != nil {
		return fmt.Errorf("create %s provider: %w", cfg.Provider, err)
	}

	m.mu.Lock()
	m.cfg = cfg
	m.provider = provider
	m.mu.Unlock()

	m.logger.Info("llm plugin initialized",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.model()),
	)
	return nil
}

// Start probes the provider. An unreachable provider is logged, not fatal:
// turns fail individually until it comes back.
func (m *Module) Start(ctx context.Context) error {
	hr, ok := m.Provider().(pkgllm.HealthReporter)
	if !ok {
		return nil
	}

	if err := hr.Heartbeat(ctx); err != nil {
		m.logger.Warn("llm provider not reachable",
			zap.String("provider", m.config().Provider),
			zap.Error(err),
		)
		return nil
	}

	m.logger.Info("llm provider connected", zap.String("provider", m.config().Provider))
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("llm plugin stopped")
	return nil
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(ctx context.Context) plugin.HealthStatus {
	hr, ok := m.Provider().(pkgllm.HealthReporter)
	if !ok {
		return plugin.HealthStatus{Status: "healthy", Message: "no health reporter"}
	}
	if err := hr.Heartbeat(ctx); err != nil {
		return plugin.HealthStatus{Status: "unhealthy", Message: err.Error()}
	}
	return plugin.HealthStatus{
		Status:  "healthy",
		Details: map[string]string{"provider": m.config().Provider},
	}
}

// Provider implements roles.LLMProvider.
func (m *Module) Provider() pkgllm.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.provider
}

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/config", Handler: m.handleGetConfig},
		{Method: "POST", Path: "/test", Handler: m.handleTestConnection},
	}
}

func (m *Module) config() ModuleConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (c ModuleConfig) model() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI.Model
	case ProviderOllama:
		return c.Ollama.Model
	default:
		return c.Anthropic.Model
	}
}

// newProvider builds the adapter named in cfg.Provider.
func newProvider(cfg ModuleConfig, logger *zap.Logger) (pkgllm.Provider, error) {
	switch cfg.Provider {
	case ProviderAnthropic, "":
		return anthropic.New(cfg.Anthropic, logger.Named("anthropic"))
	case ProviderOpenAI:
		return openai.New(cfg.OpenAI, logger.Named("openai"))
	case ProviderOllama:
		return ollama.New(cfg.Ollama, logger.Named("ollama"))
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
