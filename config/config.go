package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gaigenticai/insurance-ai-system-sub000/cache"
	"github.com/gaigenticai/insurance-ai-system-sub000/llm"
	"github.com/gaigenticai/insurance-ai-system-sub000/logger"
	"github.com/gaigenticai/insurance-ai-system-sub000/metrics"
	"github.com/gaigenticai/insurance-ai-system-sub000/observability"
	"github.com/gaigenticai/insurance-ai-system-sub000/resilience"
	"github.com/gaigenticai/insurance-ai-system-sub000/server"
)

// ServiceConfig contains the essential configuration fields every service
// needs. Larger config structs embed it.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// CircuitBreakerSettings controls the optional per-provider breaker in the
// orchestrator. Disabled by default so fallback attempt counts stay
// deterministic.
type CircuitBreakerSettings struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxFailures int           `yaml:"max_failures" mapstructure:"max_failures"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// AIConfig configures providers and the failover policy between them.
type AIConfig struct {
	Primary        string                 `yaml:"primary" mapstructure:"primary"`
	Fallbacks      []string               `yaml:"fallbacks" mapstructure:"fallbacks"`
	Providers      []llm.Config           `yaml:"providers" mapstructure:"providers" validate:"dive"`
	Retry          resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
	CircuitBreaker CircuitBreakerSettings `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
}

// Config is the full configuration for the insurance AI service.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	AI            AIConfig             `yaml:"ai" mapstructure:"ai"`
	Metrics       metrics.Config       `yaml:"metrics" mapstructure:"metrics"`
	Cache         cache.Config         `yaml:"cache" mapstructure:"cache"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills zero values across all sections.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Metrics.ApplyDefaults()
	c.Cache.ApplyDefaults()
	c.Observability.ApplyDefaults()
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.AI.Retry.MaxAttempts == 0 {
		c.AI.Retry = resilience.DefaultRetryConfig()
	}
	for i := range c.AI.Providers {
		c.AI.Providers[i].ApplyDefaults()
	}
	// Single provider setups can omit the primary name.
	if c.AI.Primary == "" && len(c.AI.Providers) == 1 {
		c.AI.Primary = c.AI.Providers[0].Name
	}
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}

	if len(c.AI.Providers) == 0 {
		return fmt.Errorf("config.ai: at least one provider is required")
	}
	names := make(map[string]bool, len(c.AI.Providers))
	for _, p := range c.AI.Providers {
		if names[p.Name] {
			return fmt.Errorf("config.ai: duplicate provider name %q", p.Name)
		}
		names[p.Name] = true
	}
	if !names[c.AI.Primary] {
		return fmt.Errorf("config.ai: primary provider %q is not configured", c.AI.Primary)
	}
	for _, fb := range c.AI.Fallbacks {
		if !names[fb] {
			return fmt.Errorf("config.ai: fallback provider %q is not configured", fb)
		}
	}
	return nil
}
