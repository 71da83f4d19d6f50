// Package tmdb is the movie reference module: TMDB's weekly trending chart
// and title search, with genre ids resolved through a shared GenreCache.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"github.com/MattTPin/movie-reccomendation-agent/pkg/roles"
)

const posterBase = "https://image.tmdb.org/t/p/w500"

// ErrNoAPIKey is returned when no TMDB key is configured.
var ErrNoAPIKey = errors.New("tmdb: api key not configured")

// APIError is a non-2xx response from TMDB.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb API returned %d: %s", e.StatusCode, e.Body)
}

// Result is one movie in a TMDB list response.
type Result struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Name        string  `json:"name"`
	ReleaseDate string  `json:"release_date"`
	GenreIDs    []int   `json:"genre_ids"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

type page struct {
	Results []Result `json:"results"`
}

var _ roles.MovieReference = (*Client)(nil)

// Client calls TMDB API v3 and implements roles.MovieReference.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	genres     *GenreCache
}

// NewClient creates a client. The genre cache is created by the caller
// (normally the module) so every user shares one table; nil means the
// client builds its own.
func NewClient(cfg Config, genres *GenreCache) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		genres:     genres,
	}
	if c.genres == nil {
		c.genres = NewGenreCache(c.GenreTable)
	}
	return c
}

// Genres returns the cache the client resolves genre ids with.
func (c *Client) Genres() *GenreCache {
	return c.genres
}

// GenreTable fetches /genre/movie/list. It is the usual GenreLoader.
func (c *Client) GenreTable(ctx context.Context) (map[int]string, error) {
	var resp struct {
		Genres []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"genres"`
	}
	if err := c.get(ctx, "genres", "/genre/movie/list", nil, &resp); err != nil {
		return nil, fmt.Errorf("genre list: %w", err)
	}
	table := make(map[int]string, len(resp.Genres))
	for _, g := range resp.Genres {
		table[g.ID] = g.Name
	}
	return table, nil
}

// Trending returns up to num of this week's trending movies with title,
// year, genre names and description.
func (c *Client) Trending(ctx context.Context, num int) (models.MovieList, error) {
	num = min(max(num, 1), 20)

	var resp page
	if err := c.get(ctx, "trending", "/trending/movie/week", nil, &resp); err != nil {
		return models.MovieList{}, fmt.Errorf("trending: %w", err)
	}
	if err := c.genres.Populate(ctx); err != nil {
		return models.MovieList{}, err
	}

	results := resp.Results[:min(len(resp.Results), num)]
	movies := make([]models.Movie, 0, len(results))
	for _, r := range results {
		movies = append(movies, c.toMovie(r))
	}
	return models.MovieList{Movies: movies}, nil
}

// Search returns the first result for title, or nil when nothing matches.
func (c *Client) Search(ctx context.Context, title string) (*models.Movie, error) {
	var resp page
	if err := c.get(ctx, "search", "/search/movie", url.Values{"query": {title}}, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", title, err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	if err := c.genres.Populate(ctx); err != nil {
		return nil, err
	}
	m := c.toMovie(resp.Results[0])
	return &m, nil
}

func (c *Client) toMovie(r Result) models.Movie {
	m := models.Movie{
		Title:       r.Title,
		Genres:      c.genres.Names(r.GenreIDs),
		Description: r.Overview,
		ReleaseDate: r.ReleaseDate,
	}
	if m.Title == "" {
		m.Title = r.Name
	}
	if len(r.ReleaseDate) >= 4 {
		if y, err := strconv.Atoi(r.ReleaseDate[:4]); err == nil {
			m.Year = &y
		}
	}
	if r.PosterPath != "" {
		m.Poster = posterBase + r.PosterPath
	}
	return m
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		tmdbRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		// The URL carries the key; report the path only.
		return fmt.Errorf("http GET %s: %w", path, errors.Unwrap(err))
	}
	defer resp.Body.Close()
	tmdbRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", endpoint, err)
	}
	return nil
}
