package orchestrator

import (
	"fmt"
	"time"

	"github.com/gaigenticai/insurance-ai-system-sub000/resilience"
)

// Config sets the failover policy between providers.
type Config struct {
	// Primary is the provider tried first.
	Primary string
	// Fallbacks are tried in order after the primary exhausts its retries.
	Fallbacks []string
	// Retry applies per provider.
	Retry resilience.RetryConfig

	// BreakerEnabled guards each provider with a circuit breaker. Off by
	// default: an open breaker skips a provider's attempts entirely, which
	// changes the recorded attempt counts.
	BreakerEnabled     bool
	BreakerMaxFailures int
	BreakerTimeout     time.Duration
}

// Validate checks the policy against the available provider names.
func (c *Config) Validate(available map[string]bool) error {
	if c.Primary == "" {
		return fmt.Errorf("orchestrator: primary provider is required")
	}
	if !available[c.Primary] {
		return fmt.Errorf("orchestrator: primary provider %q not found", c.Primary)
	}
	for _, name := range c.Fallbacks {
		if !available[name] {
			return fmt.Errorf("orchestrator: fallback provider %q not found", name)
		}
	}
	return nil
}
