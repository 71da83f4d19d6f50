// Package trakt is the movie metadata module. It wraps the Trakt REST API
// (lookups, charts, related titles, the user's lists) and fills the
// movie_metadata role for the assistant's actions.
package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

const apiVersion = "2"

var (
	// ErrNotFound is matched by an *APIError carrying a 404.
	ErrNotFound = errors.New("trakt: not found")

	// ErrNoAccessToken is returned for user endpoints when no OAuth
	// access token is configured.
	ErrNoAccessToken = errors.New("trakt: access token not configured")
)

// APIError is a non-2xx response from Trakt.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trakt API returned %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client is a paced HTTP client for the Trakt API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	clientID    string
	accessToken string
	limiter     *rate.Limiter
}

// NewClient creates a Trakt client from cfg. Zero values fall back to
// DefaultConfig.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		clientID:    cfg.ClientID,
		accessToken: cfg.AccessToken,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// HasAccessToken reports whether user endpoints can be called.
func (c *Client) HasAccessToken() bool {
	return c.accessToken != ""
}

// call describes one request. Endpoint is the metrics label.
type call struct {
	method   string
	endpoint string
	path     string
	query    url.Values
	user     bool // Requires the OAuth bearer token.
	body     any
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	return c.doJSON(ctx, call{method: http.MethodGet, endpoint: endpoint, path: path, query: query}, out)
}

func (c *Client) getUser(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	return c.doJSON(ctx, call{method: http.MethodGet, endpoint: endpoint, path: path, query: query, user: true}, out)
}

func (c *Client) postUser(ctx context.Context, endpoint, path string, body, out any) error {
	return c.doJSON(ctx, call{method: http.MethodPost, endpoint: endpoint, path: path, user: true, body: body}, out)
}

// doJSON performs a paced request with JSON serialization/deserialization.
func (c *Client) doJSON(ctx context.Context, cl call, result any) error {
	if cl.user && c.accessToken == "" {
		return ErrNoAccessToken
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var reqBody io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-key", c.clientID)
	req.Header.Set("trakt-api-version", apiVersion)
	if cl.user {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		traktRequestsTotal.WithLabelValues(cl.endpoint, "error").Inc()
		return fmt.Errorf("http %s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()
	traktRequestsTotal.WithLabelValues(cl.endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal %s response: %w", cl.endpoint, err)
		}
	}
	return nil
}
