package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gaigenticai/insurance-ai-system-sub000/llm"
	"github.com/gaigenticai/insurance-ai-system-sub000/logger"
)

// ResponseCache caches successful AI responses keyed by a digest of the
// request. A nil *ResponseCache is valid and disables caching.
type ResponseCache struct {
	store  Store
	ttl    time.Duration
	prefix string
	log    *logger.Logger
}

// New creates a ResponseCache from config. Returns nil when caching is
// disabled.
func New(cfg Config, log *logger.Logger) (*ResponseCache, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, nil
	}

	var store Store
	switch cfg.Backend {
	case "redis":
		store = NewRedisStore(cfg)
	default:
		store = NewMemoryStore(cfg.MaxEntries)
	}

	return &ResponseCache{
		store:  store,
		ttl:    cfg.TTL,
		prefix: cfg.KeyPrefix,
		log:    log.WithComponent("cache"),
	}, nil
}

// Key derives the cache key for an operation and request.
func (c *ResponseCache) Key(operation string, req llm.Request) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%s|%g|%d",
		operation, req.Model, req.SystemPrompt, req.Prompt, req.Temperature, req.MaxTokens))
	return c.prefix + ":" + hex.EncodeToString(sum[:])
}

// Lookup returns a cached response for the request, or nil on miss. Store
// errors are logged and reported as misses.
func (c *ResponseCache) Lookup(ctx context.Context, operation string, req llm.Request) *llm.Response {
	if c == nil {
		return nil
	}
	raw, err := c.store.Get(ctx, c.Key(operation, req))
	if err != nil {
		c.log.Warn("cache lookup failed", logger.Fields("operation", operation, "error", err.Error()))
		return nil
	}
	if raw == nil {
		return nil
	}

	var resp llm.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.log.Warn("cache entry corrupt, ignoring", logger.Fields("operation", operation))
		return nil
	}
	return &resp
}

// Save stores a successful response. Failures are logged, never returned.
func (c *ResponseCache) Save(ctx context.Context, operation string, req llm.Request, resp *llm.Response) {
	if c == nil || resp == nil || resp.Degraded() {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		c.log.Warn("cache marshal failed", logger.Fields("operation", operation, "error", err.Error()))
		return
	}
	if err := c.store.Set(ctx, c.Key(operation, req), raw, c.ttl); err != nil {
		c.log.Warn("cache save failed", logger.Fields("operation", operation, "error", err.Error()))
	}
}

// Close releases the backing store.
func (c *ResponseCache) Close() error {
	if c == nil {
		return nil
	}
	return c.store.Close()
}
