package server

import (
	"fmt"
	"time"
)

// Config is the server section of the configuration.
type Config struct {
	Host         string          `mapstructure:"host"`
	Port         int             `mapstructure:"port"`
	DevMode      bool            `mapstructure:"dev_mode"`
	ReadTimeout  time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig is the per-IP token bucket.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// DefaultConfig returns the built-in server settings. WriteTimeout leaves
// room for a turn that makes several model calls.
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		RateLimit:    RateLimitConfig{RPS: 20, Burst: 40},
	}
}

// Addr returns the listen address as host:port.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
