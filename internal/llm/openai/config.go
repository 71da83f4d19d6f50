package openai

import "time"

// Config holds the OpenAI provider configuration. BaseURL may point at any
// OpenAI-compatible endpoint.
type Config struct {
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the defaults used when the section is absent.
func DefaultConfig() Config {
	return Config{
		Model:   "gpt-4o-mini",
		BaseURL: "https://api.openai.com/v1",
		Timeout: 2 * time.Minute,
	}
}
