package trakt

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"go.uber.org/zap"
)

// StatusResponse is the JSON body returned by GET /status.
type StatusResponse struct {
	BaseURL         string `json:"base_url"`
	ClientIDSet     bool   `json:"client_id_set"`
	ClientSecretSet bool   `json:"client_secret_set"`
	AccessTokenSet  bool   `json:"access_token_set"`
	MaxParallel     int    `json:"max_parallel"`
}

// SearchResponse is the JSON body returned by GET /search.
type SearchResponse struct {
	Status     models.LookupStatus `json:"status"`
	Movie      *models.Movie       `json:"movie,omitempty"`
	Candidates []models.Movie      `json:"candidates,omitempty"`
	Score      float64             `json:"score"`
}

// handleStatus reports the Trakt integration settings.
//
//	@Summary		Get Trakt status
//	@Description	Returns whether Trakt credentials are configured.
//	@Tags			trakt
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/trakt/status [get]
func (m *Module) handleStatus(w http.ResponseWriter, _ *http.Request) {
	cfg := m.config()
	writeJSON(w, http.StatusOK, StatusResponse{
		BaseURL:         cfg.BaseURL,
		ClientIDSet:     cfg.ClientID != "",
		ClientSecretSet: cfg.ClientSecret != "",
		AccessTokenSet:  cfg.AccessToken != "",
		MaxParallel:     cfg.MaxParallel,
	})
}

// handleSearch resolves a title the same way the assistant's actions do.
//
//	@Summary		Look up a movie
//	@Description	Resolves a title (optionally with a year) or a Trakt id to a match, candidates or no match.
//	@Tags			trakt
//	@Produce		json
//	@Param			title		query		string	false	"Movie title"
//	@Param			year		query		int		false	"Release year"
//	@Param			trakt_id	query		int		false	"Trakt id"
//	@Success		200			{object}	SearchResponse
//	@Failure		400			{object}	models.APIProblem
//	@Failure		502			{object}	models.APIProblem
//	@Router			/trakt/search [get]
func (m *Module) handleSearch(w http.ResponseWriter, r *http.Request) {
	var q models.MovieQuery
	q.Title = strings.TrimSpace(r.URL.Query().Get("title"))
	for key, dst := range map[string]**int{"year": &q.Year, "trakt_id": &q.TraktID} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, key+" must be an integer")
			return
		}
		*dst = &n
	}
	if q.Empty() {
		writeError(w, http.StatusBadRequest, "title or trakt_id is required")
		return
	}

	res, err := m.Metadata().FindMovie(r.Context(), q)
	if err != nil {
		m.logger.Warn("trakt search failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "trakt request failed")
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Status:     res.Status,
		Movie:      res.Movie,
		Candidates: res.Candidates.Movies,
		Score:      res.Score,
	})
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
