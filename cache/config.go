package cache

import (
	"fmt"
	"time"
)

// Config holds response cache configuration.
type Config struct {
	// Enabled controls whether responses are cached at all.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Backend selects the store: "memory" or "redis".
	Backend string `yaml:"backend" mapstructure:"backend"`

	// TTL is how long a cached response stays valid.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// KeyPrefix namespaces cache keys.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`

	// MaxEntries bounds the in-memory store.
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`

	// Redis connection settings, used when Backend is "redis".
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.TTL == 0 {
		c.TTL = time.Hour
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "ai:response"
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = 1000
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Backend {
	case "memory":
	case "redis":
		if c.Addr == "" {
			return fmt.Errorf("cache: redis addr is required")
		}
	default:
		return fmt.Errorf("cache: unknown backend %q", c.Backend)
	}
	return nil
}
