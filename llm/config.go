package llm

import (
	"os"
	"time"
)

// Default connection parameters shared by adapters.
const (
	DefaultTimeout     = 120 * time.Second
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// Config holds per-provider connection parameters. It is read-only after
// construction; adapters copy what they need at creation time.
type Config struct {
	// Name identifies this provider instance (e.g., "openai", "ollama-local").
	Name string `yaml:"name" mapstructure:"name" validate:"required"`

	// Type selects the adapter ("openai", "ollama", "mock").
	Type string `yaml:"type" mapstructure:"type" validate:"required,oneof=openai ollama mock"`

	// BaseURL is the provider's API base URL. Empty means adapter default.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Model is the default model identifier.
	Model string `yaml:"model" mapstructure:"model" validate:"required"`

	// APIKeyEnv names the environment variable holding the credential.
	// Adapters never log the resolved value.
	APIKeyEnv string `yaml:"api_key_env" mapstructure:"api_key_env"`

	// APIKey is a literal credential. APIKeyEnv takes precedence when set.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// Timeout for one HTTP request. Defaults to 120s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`

	// MaxTokens is the default maximum tokens for responses.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
}

// ApplyDefaults sets default values for unset config fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Name == "" {
		c.Name = c.Type
	}
}

// ResolveAPIKey returns the credential, preferring the referenced
// environment variable over the literal value.
func (c *Config) ResolveAPIKey() string {
	if c.APIKeyEnv != "" {
		if v := os.Getenv(c.APIKeyEnv); v != "" {
			return v
		}
	}
	return c.APIKey
}
