package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Spider    SpiderConfig
	Browser   BrowserConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// SpiderConfig holds crawl configuration.
type SpiderConfig struct {
	TimeoutSeconds int `envconfig:"SPIDER_TIMEOUT" default:"10"`
	MaxDepth       int `envconfig:"SPIDER_MAX_DEPTH" default:"2"`
	Concurrency    int `envconfig:"SPIDER_CONCURRENCY" default:"8"`
	// RPS caps outbound fetches per second; 0 leaves them unlimited.
	RPS int `envconfig:"SPIDER_RPS" default:"0"`
}

// BrowserConfig holds browser stack configuration.
type BrowserConfig struct {
	// Screen metrics drive window centering and breakpoint heights;
	// there is no display to query server-side.
	ScreenWidth  int    `envconfig:"SCREEN_WIDTH" default:"1920"`
	ScreenHeight int    `envconfig:"SCREEN_HEIGHT" default:"1080"`
	DevicesFile  string `envconfig:"BROWSER_DEVICES_FILE" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "127.0.0.1",
		},
		Spider: SpiderConfig{
			TimeoutSeconds: 10,
			MaxDepth:       2,
			Concurrency:    8,
			RPS:            0,
		},
		Browser: BrowserConfig{
			ScreenWidth:  1920,
			ScreenHeight: 1080,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
