package tmdb

import "time"

// Config holds the TMDB settings (plugins.tmdb.*). APIKey is normally
// filled from TMDB_API_KEY.
type Config struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns a Config pointed at TMDB API v3.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		BaseURL: "https://api.themoviedb.org/3",
		Timeout: 15 * time.Second,
	}
}
