package bootstrap

import (
	"context"
	"fmt"

	"github.com/gaigenticai/insurance-ai-system-sub000/cache"
	"github.com/gaigenticai/insurance-ai-system-sub000/llm"
	"github.com/gaigenticai/insurance-ai-system-sub000/metrics"
	"github.com/gaigenticai/insurance-ai-system-sub000/observability"
	"github.com/gaigenticai/insurance-ai-system-sub000/orchestrator"
	"github.com/gaigenticai/insurance-ai-system-sub000/registry"
	"github.com/gaigenticai/insurance-ai-system-sub000/server"

	// Provider adapters register their factories on import.
	_ "github.com/gaigenticai/insurance-ai-system-sub000/llm/mock"
	_ "github.com/gaigenticai/insurance-ai-system-sub000/llm/ollama"
	_ "github.com/gaigenticai/insurance-ai-system-sub000/llm/openai"
)

// Service type names used as registry keys.
const (
	ServiceMonitor      = "metrics.monitor"
	ServiceJanitor      = "metrics.janitor"
	ServiceCache        = "cache.responses"
	ServiceProviders    = "llm.providers"
	ServiceOrchestrator = "ai.orchestrator"
	ServiceServer       = "http.server"
)

// registerServices declares the whole service graph. Registration is pure
// metadata; construction happens on first resolve.
func (a *App) registerServices() {
	cfg := a.Cfg
	log := a.Logger

	a.Registry.RegisterSingleton(ServiceMonitor, func(_ context.Context, _ registry.Deps) (any, error) {
		return metrics.NewMonitor(cfg.Metrics), nil
	})

	a.Registry.RegisterSingleton(ServiceJanitor, func(_ context.Context, deps registry.Deps) (any, error) {
		monitor := deps.Get(ServiceMonitor).(*metrics.Monitor)
		return metrics.NewJanitor(monitor, cfg.Metrics, log), nil
	}, ServiceMonitor)

	a.Registry.RegisterSingleton(ServiceCache, func(_ context.Context, _ registry.Deps) (any, error) {
		return cache.New(cfg.Cache, log)
	})

	a.Registry.RegisterSingleton(ServiceProviders, func(_ context.Context, _ registry.Deps) (any, error) {
		providers := make([]llm.Provider, 0, len(cfg.AI.Providers))
		for _, pc := range cfg.AI.Providers {
			p, err := llm.NewProvider(pc)
			if err != nil {
				return nil, fmt.Errorf("creating provider %s: %w", pc.Name, err)
			}
			providers = append(providers, p)
		}
		return providers, nil
	})

	a.Registry.RegisterSingleton(ServiceOrchestrator, func(_ context.Context, deps registry.Deps) (any, error) {
		monitor := deps.Get(ServiceMonitor).(*metrics.Monitor)
		providers := deps.Get(ServiceProviders).([]llm.Provider)
		responseCache := deps.Get(ServiceCache).(*cache.ResponseCache)

		ai, err := observability.NewAIMetrics(observability.Meter(a.Name))
		if err != nil {
			return nil, err
		}

		return orchestrator.New(orchestrator.Config{
			Primary:            cfg.AI.Primary,
			Fallbacks:          cfg.AI.Fallbacks,
			Retry:              cfg.AI.Retry,
			BreakerEnabled:     cfg.AI.CircuitBreaker.Enabled,
			BreakerMaxFailures: cfg.AI.CircuitBreaker.MaxFailures,
			BreakerTimeout:     cfg.AI.CircuitBreaker.Timeout,
		}, providers, monitor, log,
			orchestrator.WithCache(responseCache),
			orchestrator.WithAIMetrics(ai),
		)
	}, ServiceMonitor, ServiceProviders, ServiceCache)

	a.Registry.RegisterSingleton(ServiceServer, func(_ context.Context, deps registry.Deps) (any, error) {
		srv := server.New(cfg.Server, log)
		handlers := &server.Handlers{
			Service:      a.Name,
			Registry:     a.Registry,
			Orchestrator: deps.Get(ServiceOrchestrator).(*orchestrator.Orchestrator),
			Monitor:      deps.Get(ServiceMonitor).(*metrics.Monitor),
		}
		handlers.Register(srv.Engine())
		return srv, nil
	}, ServiceOrchestrator, ServiceMonitor)
}
