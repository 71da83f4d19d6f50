package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/roles"
	"go.uber.org/zap"
)

var (
	_ plugin.Plugin           = (*Module)(nil)
	_ plugin.HTTPProvider     = (*Module)(nil)
	_ roles.ReferenceProvider = (*Module)(nil)
)

// Module implements the tmdb plugin, which fills the movie_reference role.
type Module struct {
	logger *zap.Logger

	mu     sync.RWMutex
	cfg    Config
	client *Client
}

func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "tmdb",
		Version:     "0.1.0",
		Description: "TMDB trending chart and genre reference data",
		Roles:       []string{roles.RoleMovieReference},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(_ context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger

	cfg := DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal tmdb config: %w", err)
		}
	}

	var client *Client
	if cfg.Enabled {
		client = NewClient(cfg, nil)
	}

	m.mu.Lock()
	m.cfg = cfg
	m.client = client
	m.mu.Unlock()

	m.logger.Info("tmdb plugin initialized",
		zap.Bool("enabled", cfg.Enabled),
		zap.Bool("api_key_set", cfg.APIKey != ""),
	)
	return nil
}

// Start warms the genre cache. Failure is logged; the cache retries on
// first use.
func (m *Module) Start(ctx context.Context) error {
	client := m.tmdbClient()
	if client == nil || m.config().APIKey == "" {
		return nil
	}
	if err := client.Genres().Populate(ctx); err != nil {
		m.logger.Warn("genre cache not populated", zap.Error(err))
		return nil
	}
	m.logger.Info("genre cache populated", zap.Int("genres", len(client.Genres().All())))
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("tmdb plugin stopped")
	return nil
}

// Reference implements roles.ReferenceProvider. It returns nil when the
// module is disabled.
func (m *Module) Reference() roles.MovieReference {
	client := m.tmdbClient()
	if client == nil {
		return nil
	}
	return client
}

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/genres", Handler: m.handleGenres},
		{Method: "GET", Path: "/trending", Handler: m.handleTrending},
	}
}

func (m *Module) tmdbClient() *Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

func (m *Module) config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// GenresResponse is the JSON body returned by GET /genres.
type GenresResponse struct {
	Populated bool           `json:"populated"`
	Genres    map[int]string `json:"genres"`
}

// handleGenres returns the cached genre table, populating it if needed.
//
//	@Summary		List TMDB genres
//	@Description	Returns the TMDB genre id to name table.
//	@Tags			tmdb
//	@Produce		json
//	@Success		200	{object}	GenresResponse
//	@Failure		502	{object}	models.APIProblem
//	@Failure		503	{object}	models.APIProblem
//	@Router			/tmdb/genres [get]
func (m *Module) handleGenres(w http.ResponseWriter, r *http.Request) {
	client := m.tmdbClient()
	if client == nil {
		writeError(w, http.StatusServiceUnavailable, "tmdb is disabled")
		return
	}
	if err := client.Genres().Populate(r.Context()); err != nil {
		m.logger.Warn("genre fetch failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "tmdb request failed")
		return
	}
	writeJSON(w, http.StatusOK, GenresResponse{Populated: true, Genres: client.Genres().All()})
}

// handleTrending returns this week's trending movies.
//
//	@Summary		TMDB trending movies
//	@Description	Returns up to num (default 3, max 20) of this week's trending movies.
//	@Tags			tmdb
//	@Produce		json
//	@Param			num	query		int	false	"Number of movies"
//	@Success		200	{object}	models.MovieList
//	@Failure		400	{object}	models.APIProblem
//	@Failure		502	{object}	models.APIProblem
//	@Failure		503	{object}	models.APIProblem
//	@Router			/tmdb/trending [get]
func (m *Module) handleTrending(w http.ResponseWriter, r *http.Request) {
	client := m.tmdbClient()
	if client == nil {
		writeError(w, http.StatusServiceUnavailable, "tmdb is disabled")
		return
	}
	num := 3
	if raw := r.URL.Query().Get("num"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "num must be a positive integer")
			return
		}
		num = n
	}
	list, err := client.Trending(r.Context(), num)
	if err != nil {
		m.logger.Warn("tmdb trending failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "tmdb request failed")
		return
	}
	writeJSON(w, http.StatusOK, list)
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
