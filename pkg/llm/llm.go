// Package llm defines the provider-neutral types the assistant uses to talk
// to a chat model. Adapters for concrete services (Anthropic, OpenAI,
// Ollama) live in internal/llm/{provider}/ and implement Provider.
package llm

import "context"

// Provider is implemented by every chat model adapter.
type Provider interface {
	// Generate creates a completion from a single prompt.
	Generate(ctx context.Context, prompt string, opts ...CallOption) (*Response, error)

	// Chat creates a completion from an ordered conversation. A system
	// prompt may be carried either as a leading RoleSystem message or
	// through WithSystem; adapters merge the two.
	Chat(ctx context.Context, messages []Message, opts ...CallOption) (*Response, error)
}

// HealthReporter is optionally implemented by providers that can report
// connection health and model availability. Detected via type assertion.
type HealthReporter interface {
	Heartbeat(ctx context.Context) error
	ListModels(ctx context.Context) ([]string, error)
}

// CallOption configures a single Generate or Chat call.
type CallOption func(*CallConfig)

// CallConfig holds the resolved configuration for a single call.
type CallConfig struct {
	Model       string
	System      string
	Temperature float64
	MaxTokens   int
	StreamFunc  func(ctx context.Context, chunk []byte) error
}

// WithModel overrides the provider's default model for this call.
func WithModel(model string) CallOption {
	return func(c *CallConfig) { c.Model = model }
}

// WithSystem sets the system prompt for this call.
func WithSystem(system string) CallOption {
	return func(c *CallConfig) { c.System = system }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float64) CallOption {
	return func(c *CallConfig) { c.Temperature = temp }
}

// WithMaxTokens caps the number of generated tokens.
func WithMaxTokens(max int) CallOption {
	return func(c *CallConfig) { c.MaxTokens = max }
}

// WithStreamFunc enables streaming mode. The function is called for each
// chunk received from the provider. Return a non-nil error to abort.
func WithStreamFunc(fn func(ctx context.Context, chunk []byte) error) CallOption {
	return func(c *CallConfig) { c.StreamFunc = fn }
}

// Defaults applied by ApplyOptions before any CallOption runs.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
)

// ApplyOptions creates a CallConfig from a list of options, starting from defaults.
func ApplyOptions(opts ...CallOption) CallConfig {
	cfg := CallConfig{
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// SplitSystem separates leading system messages from the conversation and
// joins them with the System call option. Adapters whose wire format keeps
// the system prompt outside the message list use it.
func SplitSystem(messages []Message, cfg CallConfig) (string, []Message) {
	system := cfg.System
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
