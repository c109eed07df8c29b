package orchestrator

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/gaigenticai/insurance-ai-system-sub000/cache"
	apperrors "github.com/gaigenticai/insurance-ai-system-sub000/errors"
	"github.com/gaigenticai/insurance-ai-system-sub000/llm"
	"github.com/gaigenticai/insurance-ai-system-sub000/logger"
	"github.com/gaigenticai/insurance-ai-system-sub000/metrics"
	"github.com/gaigenticai/insurance-ai-system-sub000/observability"
	"github.com/gaigenticai/insurance-ai-system-sub000/prompts"
	"github.com/gaigenticai/insurance-ai-system-sub000/resilience"
)

// Orchestrator fans AI requests across configured providers with retry and
// failover. Safe for concurrent use.
type Orchestrator struct {
	providers map[string]llm.Provider
	order     []string
	retry     resilience.RetryConfig
	breakers  map[string]*resilience.CircuitBreaker

	monitor *metrics.Monitor
	cache   *cache.ResponseCache
	prompts *prompts.Manager
	ai      *observability.AIMetrics
	log     *logger.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithCache attaches a response cache. A nil cache disables caching.
func WithCache(c *cache.ResponseCache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

// WithAIMetrics attaches OpenTelemetry instruments. Nil metrics are skipped.
func WithAIMetrics(m *observability.AIMetrics) Option {
	return func(o *Orchestrator) { o.ai = m }
}

// New creates an orchestrator over the given providers.
func New(cfg Config, providers []llm.Provider, monitor *metrics.Monitor, log *logger.Logger, opts ...Option) (*Orchestrator, error) {
	byName := make(map[string]llm.Provider, len(providers))
	available := make(map[string]bool, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
		available[p.Name()] = true
	}
	if err := cfg.Validate(available); err != nil {
		return nil, err
	}

	pm, err := prompts.NewManager()
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		providers: byName,
		order:     append([]string{cfg.Primary}, cfg.Fallbacks...),
		retry:     cfg.Retry,
		monitor:   monitor,
		prompts:   pm,
		log:       log.WithComponent("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}

	if cfg.BreakerEnabled {
		o.breakers = make(map[string]*resilience.CircuitBreaker, len(o.order))
		for _, name := range o.order {
			bc := resilience.DefaultCircuitBreakerConfig(name)
			if cfg.BreakerMaxFailures > 0 {
				bc.MaxFailures = cfg.BreakerMaxFailures
			}
			if cfg.BreakerTimeout > 0 {
				bc.Timeout = cfg.BreakerTimeout
			}
			o.breakers[name] = resilience.NewCircuitBreaker(bc)
		}
	}
	return o, nil
}

// Providers returns the provider names in failover order.
func (o *Orchestrator) Providers() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Generate produces a response for the request. The result is always a
// value: when every provider exhausts its retries the response is degraded,
// with Err set and no content.
func (o *Orchestrator) Generate(ctx context.Context, operation string, req llm.Request) *llm.Response {
	return o.execute(ctx, operation, req, func(ctx context.Context, p llm.Provider) (*llm.Response, error) {
		return p.Generate(ctx, req)
	})
}

// GenerateStructured is Generate with schema instructions appended to the
// prompt; a response that fails to parse as JSON counts as a retryable
// failure on that attempt.
func (o *Orchestrator) GenerateStructured(ctx context.Context, operation string, req llm.Request, schema any) *llm.Response {
	return o.execute(ctx, operation, req, func(ctx context.Context, p llm.Provider) (*llm.Response, error) {
		return p.GenerateStructured(ctx, req, schema)
	})
}

type callFunc func(ctx context.Context, p llm.Provider) (*llm.Response, error)

func (o *Orchestrator) execute(ctx context.Context, operation string, req llm.Request, call callFunc) *llm.Response {
	ctx, span := observability.StartSpan(ctx, "ai.generate")
	span.SetAttributes(attribute.String("operation", operation))
	defer span.End()

	start := time.Now()
	o.ai.RecordGenerationStart(ctx)

	// Only deterministic requests are cached; a sampled response replayed
	// byte for byte would defeat the temperature.
	cacheable := req.Temperature == 0
	if cacheable {
		if cached := o.cache.Lookup(ctx, operation, req); cached != nil {
			o.ai.RecordGenerationEnd(ctx, cached.Provider, operation, "cache_hit", time.Since(start))
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached
		}
	}

	attempted := make([]string, 0, len(o.order))
	for i, name := range o.order {
		provider := o.providers[name]

		if !provider.IsAvailable(ctx) {
			o.log.Warn("provider unavailable, skipping", logger.Fields(
				logger.FieldProvider, name,
				logger.FieldOperation, operation,
			))
			continue
		}
		if i > 0 {
			o.ai.RecordFallback(ctx, o.order[i-1], name)
		}
		attempted = append(attempted, name)

		resp, err := o.callWithRetry(ctx, operation, provider, call)
		if err == nil {
			if cacheable {
				o.cache.Save(ctx, operation, req, resp)
			}
			o.ai.RecordGenerationEnd(ctx, name, operation, "ok", time.Since(start))
			if resp.Usage != nil {
				o.ai.RecordTokens(ctx, name, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
			}
			span.SetAttributes(attribute.String("provider", name))
			return resp
		}

		o.ai.RecordError(ctx, name, string(apperrors.CodeOf(err)))
		o.log.Warn("provider exhausted", logger.Fields(
			logger.FieldProvider, name,
			logger.FieldOperation, operation,
			logger.FieldError, err.Error(),
		))

		if ctx.Err() != nil {
			cancelErr := apperrors.Canceled(ctx.Err())
			// An aborted backoff is still a failed attempt on this provider.
			o.monitor.Record(metrics.Event{
				Provider:  name,
				Operation: operation,
				Latency:   time.Since(start),
				Error:     string(apperrors.CodeOf(cancelErr)),
			})
			o.ai.RecordGenerationEnd(ctx, name, operation, "canceled", time.Since(start))
			span.RecordError(cancelErr)
			return &llm.Response{Provider: name, Err: cancelErr}
		}
	}

	outage := apperrors.AllProvidersFailed(attempted)
	o.ai.RecordGenerationEnd(ctx, "", operation, "degraded", time.Since(start))
	span.RecordError(outage)
	o.log.Error("all providers failed", logger.Fields(
		logger.FieldOperation, operation,
		"attempted", attempted,
	))
	return &llm.Response{Err: outage}
}

// callWithRetry runs one provider's retried attempts, recording every
// attempt to the monitor. The optional circuit breaker wraps the whole
// retry loop; an open breaker fails the provider without attempts.
func (o *Orchestrator) callWithRetry(ctx context.Context, operation string, p llm.Provider, call callFunc) (*llm.Response, error) {
	run := func() (*llm.Response, error) {
		return resilience.Retry(ctx, o.retryConfig(operation, p.Name()), func() (*llm.Response, error) {
			return o.attempt(ctx, operation, p, call)
		})
	}

	breaker := o.breakers[p.Name()]
	if breaker == nil {
		return run()
	}

	var resp *llm.Response
	err := breaker.Execute(func() error {
		r, e := run()
		if e != nil {
			return e
		}
		resp = r
		return nil
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		o.log.Warn("circuit open, skipping provider", logger.Fields(logger.FieldProvider, p.Name()))
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// attempt makes a single provider call and records its outcome.
func (o *Orchestrator) attempt(ctx context.Context, operation string, p llm.Provider, call callFunc) (*llm.Response, error) {
	start := time.Now()
	resp, err := call(ctx, p)
	elapsed := time.Since(start)

	event := metrics.Event{
		Provider:  p.Name(),
		Operation: operation,
		Latency:   elapsed,
		Success:   err == nil,
	}
	if err != nil {
		event.Error = string(apperrors.CodeOf(err))
	} else {
		event.Model = resp.Model
		event.Confidence = resp.Confidence
		if resp.Usage != nil {
			event.Usage = &metrics.TokenUsage{
				Prompt:     resp.Usage.PromptTokens,
				Completion: resp.Usage.CompletionTokens,
				Total:      resp.Usage.TotalTokens,
			}
		}
	}
	o.monitor.Record(event)

	return resp, err
}

func (o *Orchestrator) retryConfig(operation, provider string) resilience.RetryConfig {
	cfg := o.retry
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		o.log.Debug("retrying provider call", logger.Fields(
			logger.FieldProvider, provider,
			logger.FieldOperation, operation,
			logger.FieldAttempt, attempt,
			"backoff", backoff.String(),
			logger.FieldError, err.Error(),
		))
	}
	return cfg
}

// CheckHealth reports provider reachability: up when the primary responds,
// degraded when only fallbacks do, down when none do.
func (o *Orchestrator) CheckHealth(ctx context.Context) observability.Health {
	h := observability.Health{Name: "orchestrator", Status: observability.HealthStatusUp}

	anyUp := false
	for i, name := range o.order {
		if o.providers[name].IsAvailable(ctx) {
			anyUp = true
			if i == 0 {
				return h
			}
			break
		}
	}

	switch {
	case anyUp:
		h.Status = observability.HealthStatusDegraded
		h.Message = "primary provider unavailable"
	default:
		h.Status = observability.HealthStatusDown
		h.Message = "no providers available"
	}
	return h
}
