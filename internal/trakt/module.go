package trakt

import (
	"context"
	"fmt"
	"sync"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/roles"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin          = (*Module)(nil)
	_ plugin.HTTPProvider    = (*Module)(nil)
	_ plugin.HealthChecker   = (*Module)(nil)
	_ roles.MetadataProvider = (*Module)(nil)
)

// Module implements the trakt plugin, which fills the movie_metadata role.
type Module struct {
	logger *zap.Logger

	mu      sync.RWMutex
	cfg     Config
	client  *Client
	service *Service
}

// New creates a trakt module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "trakt",
		Version:     "0.2.0",
		Description: "Trakt movie lookups, charts and user lists",
		Roles:       []string{roles.RoleMovieMetadata},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(_ context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger

	cfg := DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal trakt config: %w", err)
		}
	}

	client := NewClient(cfg)
	service := NewService(client, deps.Bus, cfg.MaxParallel, m.logger)

	m.mu.Lock()
	m.cfg = cfg
	m.client = client
	m.service = service
	m.mu.Unlock()

	if cfg.ClientID == "" {
		m.logger.Warn("trakt client id not configured; lookups will be rejected")
	}
	if cfg.AccessToken == "" {
		m.logger.Info("trakt access token not configured; user lists are unavailable")
	}
	m.logger.Info("trakt plugin initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.Int("max_parallel", cfg.MaxParallel),
	)
	return nil
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("trakt plugin started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("trakt plugin stopped")
	return nil
}

// Metadata implements roles.MetadataProvider.
func (m *Module) Metadata() roles.MovieMetadata {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.service
}

// Health reports degraded when credentials are missing.
func (m *Module) Health(_ context.Context) plugin.HealthStatus {
	cfg := m.config()
	switch {
	case cfg.ClientID == "":
		return plugin.HealthStatus{Status: "unhealthy", Message: "client id not configured"}
	case cfg.AccessToken == "":
		return plugin.HealthStatus{Status: "degraded", Message: "access token not configured"}
	}
	return plugin.HealthStatus{Status: "healthy"}
}

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/status", Handler: m.handleStatus},
		{Method: "GET", Path: "/search", Handler: m.handleSearch},
	}
}

func (m *Module) config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}
