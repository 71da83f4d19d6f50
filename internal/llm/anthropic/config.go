package anthropic

import "time"

// Config holds the Anthropic provider configuration. APIKey is normally
// filled from ANTHROPIC_API_KEY rather than the config file.
type Config struct {
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the defaults used when the section is absent.
func DefaultConfig() Config {
	return Config{
		Model:   "claude-3-haiku-20240307",
		BaseURL: "https://api.anthropic.com",
		Timeout: 2 * time.Minute,
	}
}
