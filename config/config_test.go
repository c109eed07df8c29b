package config

import (
	"strings"
	"testing"

	"github.com/gaigenticai/insurance-ai-system-sub000/llm"
)

func validConfig() Config {
	return Config{
		ServiceConfig: ServiceConfig{Name: "insurance-ai"},
		AI: AIConfig{
			Primary:   "ollama-local",
			Fallbacks: []string{"backup"},
			Providers: []llm.Config{
				{Name: "ollama-local", Type: "ollama", Model: "llama3"},
				{Name: "backup", Type: "mock", Model: "mock-model"},
			},
		},
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Environment != "development" {
		t.Errorf("expected development default, got %s", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug on in development")
	}
	if cfg.Logging.ServiceName != "insurance-ai" {
		t.Errorf("expected service name propagated to logging, got %s", cfg.Logging.ServiceName)
	}
	if cfg.Observability.ServiceName != "insurance-ai" {
		t.Errorf("expected service name propagated to observability, got %s", cfg.Observability.ServiceName)
	}
	if cfg.AI.Retry.MaxAttempts != 3 {
		t.Errorf("expected default retry policy, got %d attempts", cfg.AI.Retry.MaxAttempts)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Metrics.Capacity == 0 {
		t.Error("expected metrics capacity default set")
	}
}

func TestApplyDefaults_SingleProviderBecomesPrimary(t *testing.T) {
	cfg := Config{
		ServiceConfig: ServiceConfig{Name: "svc"},
		AI: AIConfig{
			Providers: []llm.Config{{Name: "only", Type: "mock", Model: "m"}},
		},
	}
	cfg.ApplyDefaults()

	if cfg.AI.Primary != "only" {
		t.Errorf("expected the single provider promoted to primary, got %q", cfg.AI.Primary)
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"missing name", func(c *Config) { c.Name = "" }, "validation"},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "validation"},
		{"no providers", func(c *Config) { c.AI.Providers = nil }, "at least one provider"},
		{"duplicate provider", func(c *Config) {
			c.AI.Providers = append(c.AI.Providers, c.AI.Providers[0])
		}, "duplicate provider"},
		{"unknown primary", func(c *Config) { c.AI.Primary = "ghost" }, "primary provider"},
		{"unknown fallback", func(c *Config) { c.AI.Fallbacks = []string{"ghost"} }, "fallback provider"},
		{"bad provider type", func(c *Config) { c.AI.Providers[0].Type = "grpc" }, "validation"},
	}

	for _, c := range cases {
		cfg := validConfig()
		cfg.ApplyDefaults()
		c.mutate(&cfg)

		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected an error", c.name)
			continue
		}
		if !strings.Contains(err.Error(), c.wantSub) {
			t.Errorf("%s: expected %q in error, got %v", c.name, c.wantSub, err)
		}
	}
}
