package trakt

import "time"

// Config holds the Trakt API settings (plugins.trakt.*). The credentials are
// normally filled from TRAKT_CLIENT_ID, TRAKT_CLIENT_SECRET and
// TRAKT_ACCESS_TOKEN. The secret is only needed to refresh a token outside
// this process and is reported, never sent.
type Config struct {
	BaseURL           string        `mapstructure:"base_url"`
	ClientID          string        `mapstructure:"client_id"`
	ClientSecret      string        `mapstructure:"client_secret"`
	AccessToken       string        `mapstructure:"access_token"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxParallel       int           `mapstructure:"max_parallel"` // Concurrent detail fetches per call
}

// DefaultConfig returns a Config pointed at the public Trakt API.
// Trakt allows roughly 1000 GET calls per 5 minutes per client.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://api.trakt.tv",
		Timeout:           15 * time.Second,
		RequestsPerSecond: 3,
		Burst:             6,
		MaxParallel:       3,
	}
}
