package assistant

import (
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/internal/action"
	"github.com/MattTPin/movie-reccomendation-agent/internal/gateway"
)

// Config is the plugins.assistant section.
type Config struct {
	// TrendingSource picks the backend of the trending chart: "trakt" or
	// "tmdb".
	TrendingSource string        `mapstructure:"trending_source"`
	Greeting       string        `mapstructure:"greeting"`
	HistoryWindow  int           `mapstructure:"history_window"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Temperature    float64       `mapstructure:"temperature"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	TurnTimeout    time.Duration `mapstructure:"turn_timeout"`
}

// DefaultGreeting opens every session.
const DefaultGreeting = "Movie assistant, I am!."

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	gw := gateway.DefaultConfig()
	return Config{
		TrendingSource: action.SourceTrakt,
		Greeting:       DefaultGreeting,
		HistoryWindow:  gw.Window,
		MaxTokens:      gw.MaxTokens,
		Temperature:    *gw.Temperature,
		TurnTimeout:    90 * time.Second,
	}
}

func (c Config) gateway() gateway.Config {
	return gateway.Config{
		Window:      c.HistoryWindow,
		MaxTokens:   c.MaxTokens,
		Temperature: &c.Temperature,
	}
}
