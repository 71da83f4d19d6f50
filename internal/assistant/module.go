// Package assistant is the module that assembles the conversation
// pipeline (gateway, action catalog, router, chat service) from the llm,
// movie_metadata and movie_reference roles and serves it over HTTP and
// WebSocket.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/internal/action"
	"github.com/MattTPin/movie-reccomendation-agent/internal/chat"
	"github.com/MattTPin/movie-reccomendation-agent/internal/gateway"
	"github.com/MattTPin/movie-reccomendation-agent/internal/router"
	"github.com/MattTPin/movie-reccomendation-agent/internal/turnlog"
	"github.com/MattTPin/movie-reccomendation-agent/internal/ws"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/roles"
	"go.uber.org/zap"
)

var (
	_ plugin.Plugin        = (*Module)(nil)
	_ plugin.HTTPProvider  = (*Module)(nil)
	_ plugin.HealthChecker = (*Module)(nil)
)

var (
	errNoLLM      = errors.New("no llm provider available")
	errNoMetadata = errors.New("no movie_metadata provider available")
)

// Module implements the assistant plugin.
type Module struct {
	logger  *zap.Logger
	bus     plugin.EventBus
	plugins plugin.PluginResolver
	turns   *turnlog.Store

	mu       sync.RWMutex
	cfg      Config
	sessions *chat.SessionStore
	catalog  *action.Catalog
	service  *chat.Service
	socket   *ws.Handler
	notReady error
}

// New creates an assistant module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:         "assistant",
		Version:      "0.4.0",
		Description:  "Chat sessions routed to movie actions",
		Dependencies: []string{"llm", "trakt"},
		APIVersion:   plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus
	m.plugins = deps.Plugins

	cfg := DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal assistant config: %w", err)
		}
	}
	switch cfg.TrendingSource {
	case action.SourceTrakt, action.SourceTMDB:
	default:
		return fmt.Errorf("invalid trending_source %q: want %q or %q",
			cfg.TrendingSource, action.SourceTrakt, action.SourceTMDB)
	}

	if deps.Store != nil {
		if err := deps.Store.Migrate(ctx, "assistant", turnlog.Migrations()); err != nil {
			return fmt.Errorf("assistant migrations: %w", err)
		}
		m.turns = turnlog.New(deps.Store.DB())
	}

	m.mu.Lock()
	m.cfg = cfg
	m.sessions = chat.NewSessionStore(cfg.Greeting)
	m.notReady = errors.New("not started")
	m.mu.Unlock()

	m.logger.Info("assistant plugin initialized",
		zap.String("trending_source", cfg.TrendingSource),
		zap.Bool("turn_log", m.turns != nil),
	)
	return nil
}

// Start assembles the pipeline. Missing providers leave the module
// running but unready; its endpoints answer 503.
func (m *Module) Start(_ context.Context) error {
	if err := m.build(); err != nil {
		m.logger.Warn("assistant not ready", zap.Error(err))
		m.mu.Lock()
		m.notReady = err
		m.mu.Unlock()
		return nil
	}
	m.logger.Info("assistant pipeline ready", zap.Int("actions", len(m.actionCatalog().All())))
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.mu.Lock()
	socket := m.socket
	m.mu.Unlock()
	if socket != nil {
		socket.Close()
	}
	m.logger.Info("assistant plugin stopped")
	return nil
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(_ context.Context) plugin.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.notReady != nil {
		return plugin.HealthStatus{Status: "unhealthy", Message: m.notReady.Error()}
	}
	return plugin.HealthStatus{
		Status: "healthy",
		Details: map[string]string{
			"sessions":        strconv.Itoa(m.sessions.Len()),
			"trending_source": m.cfg.TrendingSource,
		},
	}
}

// Chat returns the chat service and session store, or nil when the
// pipeline could not be assembled.
func (m *Module) Chat() (*chat.Service, *chat.SessionStore) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.service == nil {
		return nil, nil
	}
	return m.service, m.sessions
}

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "/sessions", Handler: m.handleCreateSession},
		{Method: "GET", Path: "/sessions/{id}/messages", Handler: m.handleListMessages},
		{Method: "POST", Path: "/sessions/{id}/messages", Handler: m.handleSendMessage},
		{Method: "DELETE", Path: "/sessions/{id}", Handler: m.handleDeleteSession},
		{Method: "GET", Path: "/sessions/{id}/trailers", Handler: m.handleTrailers},
		{Method: "GET", Path: "/actions", Handler: m.handleActions},
		{Method: "GET", Path: "/turns", Handler: m.handleTurns},
		{Method: "GET", Path: "/ws", Handler: m.handleWebSocket},
	}
}

func (m *Module) build() error {
	cfg := m.config()

	llmp, ok := resolve[roles.LLMProvider](m.plugins, roles.RoleLLM)
	if !ok || llmp.Provider() == nil {
		return errNoLLM
	}
	meta, ok := resolve[roles.MetadataProvider](m.plugins, roles.RoleMovieMetadata)
	if !ok || meta.Metadata() == nil {
		return errNoMetadata
	}
	var ref roles.MovieReference
	if rp, ok := resolve[roles.ReferenceProvider](m.plugins, roles.RoleMovieReference); ok {
		ref = rp.Reference()
	}
	if cfg.TrendingSource == action.SourceTMDB && ref == nil {
		m.logger.Warn("trending_source is tmdb but no reference provider is active; using trakt")
	}

	gw := gateway.New(llmp.Provider(), cfg.gateway(), m.logger.Named("gateway"))
	catalog := action.NewCatalog(action.Services{
		Metadata:       meta.Metadata(),
		Reference:      ref,
		TrendingSource: cfg.TrendingSource,
	}, m.logger.Named("action"))
	rt := router.New(catalog, gw, m.logger.Named("router"))

	var opts []chat.Option
	if m.bus != nil {
		opts = append(opts, chat.WithBus(m.bus))
	}
	if m.turns != nil {
		opts = append(opts, chat.WithTurnLog(m.turns))
	}
	service := chat.NewService(rt, gw, m.logger.Named("chat"), opts...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = catalog
	m.service = service
	m.socket = ws.NewHandler(m.sessions, service, m.bus, cfg.AllowedOrigins, m.logger.Named("ws"))
	m.notReady = nil
	return nil
}

// resolve returns the first active module filling role that implements T.
func resolve[T any](plugins plugin.PluginResolver, role string) (T, bool) {
	var zero T
	if plugins == nil {
		return zero, false
	}
	for _, p := range plugins.ResolveByRole(role) {
		if v, ok := p.(T); ok {
			return v, true
		}
	}
	return zero, false
}

// TurnTimeout bounds one turn; zero means no limit.
func (m *Module) TurnTimeout() time.Duration {
	return m.config().TurnTimeout
}

func (m *Module) config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (m *Module) actionCatalog() *action.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog
}

func (m *Module) websocket() *ws.Handler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.socket
}
