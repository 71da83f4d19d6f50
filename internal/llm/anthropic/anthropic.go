// Package anthropic adapts the Anthropic Messages API to llm.Provider.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/llm"
	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

var (
	_ llm.Provider       = (*Provider)(nil)
	_ llm.HealthReporter = (*Provider)(nil)
)

// Provider implements llm.Provider on top of the official SDK client.
type Provider struct {
	client sdk.Client
	cfg    Config
	logger *zap.Logger
}

// New creates an Anthropic provider.
func New(cfg Config, logger *zap.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Provider{
		client: sdk.NewClient(opts...),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Generate creates a completion from a single prompt.
func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.CallOption) (*llm.Response, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// Chat creates a completion from a conversation. The system prompt goes in
// the request's system field, and leading assistant turns are dropped
// because the Messages API requires the conversation to open with a user
// turn.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.CallOption) (*llm.Response, error) {
	cfg := llm.ApplyOptions(opts...)
	system, rest := llm.SplitSystem(messages, cfg)
	rest = foldLeadingAssistant(rest)
	if len(rest) == 0 {
		return nil, llm.NewProviderError(llm.ErrCodeInvalidRequest, "messages must contain a user turn", nil)
	}

	model := cfg.Model
	if model == "" {
		model = p.cfg.Model
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(model),
		MaxTokens:   int64(cfg.MaxTokens),
		Messages:    toParams(rest),
		Temperature: sdk.Float(cfg.Temperature),
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}

	var content strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	in, out := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	return &llm.Response{
		Content: content.String(),
		Model:   string(msg.Model),
		Usage: llm.Usage{
			PromptTokens:     in,
			CompletionTokens: out,
			TotalTokens:      in + out,
		},
		Done: msg.StopReason != sdk.StopReasonMaxTokens,
	}, nil
}

// Heartbeat checks that the API answers an authenticated models listing.
func (p *Provider) Heartbeat(ctx context.Context) error {
	_, err := p.ListModels(ctx)
	return err
}

// ListModels returns the model ids visible to the configured key.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	page, err := p.client.Models.List(ctx, sdk.ModelListParams{})
	if err != nil {
		return nil, mapError(err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// foldLeadingAssistant makes the conversation open with a user turn, as
// the Messages API requires. Assistant turns before the first user turn
// are kept as quoted context at the top of that turn. Returns nil when
// there is no user turn.
func foldLeadingAssistant(messages []llm.Message) []llm.Message {
	for i, m := range messages {
		if m.Role != llm.RoleUser {
			continue
		}
		if i == 0 {
			return messages
		}
		var b strings.Builder
		for _, lead := range messages[:i] {
			b.WriteString("[Earlier assistant message]: ")
			b.WriteString(lead.Content)
			b.WriteString("\n\n")
		}
		b.WriteString(m.Content)
		out := make([]llm.Message, 0, len(messages)-i)
		out = append(out, llm.Message{Role: llm.RoleUser, Content: b.String()})
		return append(out, messages[i+1:]...)
	}
	return nil
}

func toParams(messages []llm.Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(messages))
	for _, m := range messages {
		block := sdk.NewTextBlock(m.Content)
		if m.Role == llm.RoleAssistant {
			out = append(out, sdk.NewAssistantMessage(block))
			continue
		}
		out = append(out, sdk.NewUserMessage(block))
	}
	return out
}
