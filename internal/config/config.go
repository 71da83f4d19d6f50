// Package config loads the assistant's configuration (YAML file, environment
// overrides, API credentials) and exposes it to modules through the
// plugin.Config interface.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/plugin"
	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

var _ plugin.Config = (*ViperConfig)(nil)

// EnvPrefix prefixes every environment override: MOVIEAGENT_SERVER_PORT=9090.
const EnvPrefix = "MOVIEAGENT"

// Secrets are the opaque API credentials read from the environment. They are
// copied into the matching module sections by Load and never logged.
type Secrets struct {
	TraktClientID     string `env:"TRAKT_CLIENT_ID"`
	TraktClientSecret string `env:"TRAKT_CLIENT_SECRET"`
	TraktAccessToken  string `env:"TRAKT_ACCESS_TOKEN"`
	TMDBAPIKey        string `env:"TMDB_API_KEY"`
	AnthropicAPIKey   string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey      string `env:"OPENAI_API_KEY"`
}

// secretKeys maps each secret onto the config key it fills.
func (s Secrets) secretKeys() map[string]string {
	return map[string]string{
		"plugins.trakt.client_id":       s.TraktClientID,
		"plugins.trakt.client_secret":   s.TraktClientSecret,
		"plugins.trakt.access_token":    s.TraktAccessToken,
		"plugins.tmdb.api_key":          s.TMDBAPIKey,
		"plugins.llm.anthropic.api_key": s.AnthropicAPIKey,
		"plugins.llm.openai.api_key":    s.OpenAIAPIKey,
	}
}

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.rate_limit.rps", 20)
	v.SetDefault("server.rate_limit.burst", 40)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("database.path", "./data/movieagent.db")

	v.SetDefault("plugins.llm.provider", "anthropic")
	v.SetDefault("plugins.llm.anthropic.model", "claude-3-haiku-20240307")
	v.SetDefault("plugins.llm.anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("plugins.llm.anthropic.timeout", "2m")
	v.SetDefault("plugins.llm.openai.model", "gpt-4o-mini")
	v.SetDefault("plugins.llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("plugins.llm.openai.timeout", "2m")
	v.SetDefault("plugins.llm.ollama.url", "http://localhost:11434")
	v.SetDefault("plugins.llm.ollama.model", "qwen2.5:7b")
	v.SetDefault("plugins.llm.ollama.timeout", "5m")

	v.SetDefault("plugins.trakt.base_url", "https://api.trakt.tv")
	v.SetDefault("plugins.trakt.timeout", "15s")
	v.SetDefault("plugins.trakt.requests_per_second", 3.0)
	v.SetDefault("plugins.trakt.burst", 6)
	v.SetDefault("plugins.trakt.max_parallel", 3)

	v.SetDefault("plugins.tmdb.enabled", true)
	v.SetDefault("plugins.tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("plugins.tmdb.timeout", "15s")

	v.SetDefault("plugins.assistant.trending_source", "trakt")
	v.SetDefault("plugins.assistant.greeting", "Movie assistant, I am!.")
	v.SetDefault("plugins.assistant.history_window", 6)
	v.SetDefault("plugins.assistant.max_tokens", 1024)
	v.SetDefault("plugins.assistant.temperature", 0.7)
	v.SetDefault("plugins.assistant.allowed_origins", []string{})
	v.SetDefault("plugins.assistant.turn_timeout", "90s")

	v.SetDefault("plugins.webhook.enabled", true)
	v.SetDefault("plugins.webhook.url", "")
	v.SetDefault("plugins.webhook.timeout", "10s")
}

// Load reads configuration from configPath (or movieagent.yaml in the usual
// places), applies MOVIEAGENT_* overrides, then fills credentials from the
// environment. A missing config file is not an error.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("movieagent")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/movieagent")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var secrets Secrets
	if err := env.Parse(&secrets); err != nil {
		return nil, fmt.Errorf("reading credentials from environment: %w", err)
	}
	ApplySecrets(v, secrets)

	return v, nil
}

// ApplySecrets copies non-empty credentials into v.
func ApplySecrets(v *viper.Viper, s Secrets) {
	for key, value := range s.secretKeys() {
		if value != "" {
			v.Set(key, value)
		}
	}
}

// ViperConfig wraps a Viper instance to implement plugin.Config.
type ViperConfig struct {
	v *viper.Viper
}

// New creates a Config backed by v. A nil v yields an empty config.
func New(v *viper.Viper) *ViperConfig {
	if v == nil {
		v = viper.New()
	}
	return &ViperConfig{v: v}
}

func (c *ViperConfig) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}

func (c *ViperConfig) Get(key string) any {
	return c.v.Get(key)
}

func (c *ViperConfig) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *ViperConfig) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *ViperConfig) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *ViperConfig) GetDuration(key string) time.Duration {
	return c.v.GetDuration(key)
}

func (c *ViperConfig) IsSet(key string) bool {
	return c.v.IsSet(key)
}

// Sub scopes the config to key. The section is rebuilt from AllSettings so
// defaults, file values and Set overrides (credentials) are merged; a
// missing section yields an empty config and modules keep their defaults.
func (c *ViperConfig) Sub(key string) plugin.Config {
	var node any = c.v.AllSettings()
	for _, part := range strings.Split(strings.ToLower(key), ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return New(nil)
		}
		node = m[part]
	}

	section, ok := node.(map[string]any)
	if !ok {
		return New(nil)
	}
	sub := viper.New()
	if err := sub.MergeConfigMap(section); err != nil {
		return New(nil)
	}
	return New(sub)
}

// Viper returns the underlying instance for top-level keys such as server.port.
func (c *ViperConfig) Viper() *viper.Viper {
	return c.v
}
