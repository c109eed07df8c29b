package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/gaigenticai/insurance-ai-system-sub000/config"
	"github.com/gaigenticai/insurance-ai-system-sub000/logger"
	"github.com/gaigenticai/insurance-ai-system-sub000/metrics"
	"github.com/gaigenticai/insurance-ai-system-sub000/observability"
	"github.com/gaigenticai/insurance-ai-system-sub000/registry"
	"github.com/gaigenticai/insurance-ai-system-sub000/server"
	"github.com/gaigenticai/insurance-ai-system-sub000/version"
)

// App wires the whole service together around one registry instance.
type App struct {
	Name     string
	Version  string
	Cfg      *config.Config
	Registry *registry.Registry
	Logger   *logger.Logger

	meterProvider *sdkmetric.MeterProvider
}

// New validates the config, initializes logging, and registers all services.
// Nothing is constructed until Start resolves it.
func New(cfg *config.Config) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(&cfg.Logging)
	log := logger.GetGlobalLogger()

	if cfg.Version == "" {
		cfg.Version = version.Short()
	}

	app := &App{
		Name:     cfg.Name,
		Version:  cfg.Version,
		Cfg:      cfg,
		Registry: registry.New(log),
		Logger:   log,
	}
	app.registerServices()
	return app, nil
}

// Start initializes telemetry and brings up the service graph: resolving
// the HTTP server pulls the orchestrator, providers, cache, and monitor up
// in dependency order.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	mp, err := observability.InitMeter(ctx, a.Cfg.Observability)
	if err != nil {
		a.Logger.Warn("metrics export disabled", logger.Fields("error", err.Error()))
	} else {
		a.meterProvider = mp
	}

	janitor, err := registry.ResolveAs[*metrics.Janitor](ctx, a.Registry, ServiceJanitor)
	if err != nil {
		return fmt.Errorf("resolving janitor: %w", err)
	}
	if err := janitor.Start(); err != nil {
		return fmt.Errorf("starting janitor: %w", err)
	}

	if a.Cfg.Server.Enabled {
		srv, err := registry.ResolveAs[*server.Server](ctx, a.Registry, ServiceServer)
		if err != nil {
			return fmt.Errorf("resolving server: %w", err)
		}
		if err := srv.Start(ctx); err != nil {
			return err
		}
	} else if _, err := a.Registry.Resolve(ctx, ServiceOrchestrator); err != nil {
		return fmt.Errorf("resolving orchestrator: %w", err)
	}

	a.Logger.Info("application started")
	return nil
}

// Run starts the application and blocks until SIGINT or SIGTERM, then shuts
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("received signal, shutting down", logger.Fields("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.Info("context canceled, shutting down")
	}

	return a.Shutdown(context.Background())
}

// HealthCheck aggregates health across all registered services.
func (a *App) HealthCheck(ctx context.Context) registry.HealthReport {
	return a.Registry.HealthCheck(ctx)
}

// Shutdown tears the service graph down in reverse construction order, then
// flushes telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	a.Registry.Shutdown(shutdownCtx)

	if a.meterProvider != nil {
		if err := a.meterProvider.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("meter provider shutdown failed", logger.Fields("error", err.Error()))
		}
	}

	a.Logger.Info("application stopped")
	return nil
}
