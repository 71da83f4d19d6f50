// Package ollama adapts a local Ollama server to llm.Provider.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/llm"
	"go.uber.org/zap"
)

var (
	_ llm.Provider       = (*Provider)(nil)
	_ llm.HealthReporter = (*Provider)(nil)
)

// Provider implements llm.Provider for Ollama's /api/chat endpoint.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	cfg        Config
	logger     *zap.Logger
}

// New creates an Ollama provider. It does not verify connectivity.
func New(cfg Config, logger *zap.Logger) (*Provider, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url %q: %w", cfg.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("ollama url %q must be absolute", cfg.URL)
	}

	return &Provider{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Generate creates a completion from a single prompt.
func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.CallOption) (*llm.Response, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// Chat creates a completion from a conversation. With a StreamFunc the
// server streams NDJSON chunks which are forwarded as they arrive.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.Response, error) {
	cfg := llm.ApplyOptions(opts...)
	system, rest := llm.SplitSystem(messages, cfg)
	if len(rest) == 0 {
		return nil, llm.NewProviderError(llm.ErrCodeInvalidRequest, "messages must not be empty", nil)
	}

	model := cfg.Model
	if model == "" {
		model = p.cfg.Model
	}

	apiMessages := make([]chatMessage, 0, len(rest)+1)
	if system != "" {
		apiMessages = append(apiMessages, chatMessage{Role: llm.RoleSystem, Content: system})
	}
	for _, m := range rest {
		apiMessages = append(apiMessages, chatMessage{Role: m.Role, Content: m.Content})
	}

	stream := cfg.StreamFunc != nil
	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: apiMessages,
		Stream:   &stream,
		Options:  buildOptions(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	respBody, err := p.do(ctx, http.MethodPost, "/api/chat", body)
	if err != nil {
		return nil, mapError(err)
	}
	defer respBody.Close()

	var content strings.Builder
	var metrics responseMetrics
	var done bool

	scanner := bufio.NewScanner(respBody)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk chatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			continue
		}

		if chunk.Message.Content != "" {
			content.WriteString(chunk.Message.Content)
			if cfg.StreamFunc != nil {
				if sErr := cfg.StreamFunc(ctx, []byte(chunk.Message.Content)); sErr != nil {
					return nil, sErr
				}
			}
		}
		if chunk.Done {
			metrics = chunk.responseMetrics
			done = chunk.DoneReason != "length"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, mapError(err)
	}

	return &llm.Response{
		Content: content.String(),
		Model:   model,
		Usage: llm.Usage{
			PromptTokens:     metrics.PromptEvalCount,
			CompletionTokens: metrics.EvalCount,
			TotalTokens:      metrics.PromptEvalCount + metrics.EvalCount,
		},
		Done: done,
	}, nil
}

// Heartbeat checks whether the Ollama server is reachable.
func (p *Provider) Heartbeat(ctx context.Context) error {
	body, err := p.do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return mapError(err)
	}
	body.Close()
	return nil
}

// ListModels returns the names of locally pulled models.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	body, err := p.do(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, mapError(err)
	}
	defer body.Close()

	var result listResponse
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	names := make([]string, len(result.Models))
	for i := range result.Models {
		names[i] = result.Models[i].Name
	}
	return names, nil
}

// do sends a request. The caller must close the returned body.
func (p *Provider) do(ctx context.Context, method, path string, body []byte) (io.ReadCloser, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, parseStatusError(resp)
	}
	return resp.Body, nil
}

func parseStatusError(resp *http.Response) *statusError {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&errResp); err != nil || errResp.Error == "" {
		return &statusError{StatusCode: resp.StatusCode, Message: resp.Status}
	}
	return &statusError{StatusCode: resp.StatusCode, Message: errResp.Error}
}

// buildOptions converts CallConfig fields into Ollama's options map.
func buildOptions(cfg llm.CallConfig) map[string]any {
	opts := make(map[string]any)
	if cfg.Temperature >= 0 {
		opts["temperature"] = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		opts["num_predict"] = cfg.MaxTokens
	}
	return opts
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   *bool          `json:"stream,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseMetrics struct {
	PromptEvalCount int `json:"prompt_eval_count"`
	EvalCount       int `json:"eval_count"`
}

type chatResponse struct {
	Model      string      `json:"model"`
	Message    chatMessage `json:"message"`
	Done       bool        `json:"done"`
	DoneReason string      `json:"done_reason"`
	responseMetrics
}

type listResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}
