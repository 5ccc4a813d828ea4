package agent

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied by LoadConfig when the environment is silent.
const (
	DefaultBaseURL     = "https://api.anthropic.com"
	DefaultModel       = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens   = 4096
	DefaultHTTPTimeout = 60 * time.Second
)

// Config carries the settings for the API client and the default model.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	HTTPTimeout time.Duration
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one exists. Missing optional values fall back to the defaults
// above.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		BaseURL:     envOr("ANTHROPIC_BASE_URL", DefaultBaseURL),
		Model:       envOr("ANTHROPIC_MODEL", DefaultModel),
		MaxTokens:   DefaultMaxTokens,
		HTTPTimeout: DefaultHTTPTimeout,
	}
	if v := os.Getenv("ANTHROPIC_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	return cfg
}

// Validate checks that the configuration can produce a working client and
// fills zero values with defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
